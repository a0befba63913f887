package repository

// Compile-time verification that all backends implement Repository.
var (
	_ Repository = (*Memory)(nil)
	_ Repository = (*YAMLFile)(nil)
	_ Repository = (*SQLite)(nil)
)
