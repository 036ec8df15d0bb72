package dialect

import "fmt"

// New resolves a provider name to its Dialect, mirroring the teacher's
// sqlgen.NewGenerator factory dispatch.
func New(provider string) (Dialect, error) {
	switch provider {
	case "postgres", "postgresql":
		return Postgres{}, nil
	case "mysql":
		return MySQL{}, nil
	case "sqlite", "sqlite3":
		return SQLite{}, nil
	default:
		return nil, fmt.Errorf("dialect: unsupported provider %q", provider)
	}
}
