// Package configs manages project configuration for envault.
//
// Configuration lives in a single TOML file named .envault.toml at the
// project root. The file is optional; every field has a default, so a
// project without one behaves identically to a project with an empty one.
//
// The [env] table controls dotenv resolution:
//   - file: name of the default env file (default ".env")
//   - search_path: directories searched for env files, in order
//   - parents: whether the search walks up parent directories
//   - overwrite: whether file entries replace already-set variables
//
// The [vault] table carries secrets-backend connection defaults. They are
// applied only when the corresponding VAULT_* variables are unset, so the
// live environment always wins.
//
// FindProjectRoot walks up the directory tree looking for .envault.toml,
// the same way version-control tools locate their repository root.
package configs
