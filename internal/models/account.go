package models

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const accountFields = 3

// SessionConfig is one configured account. Index selects the profile directory and must stay
// stable across runs so persisted browser storage is reused.
type SessionConfig struct {
	Index           int
	Proxy           ProxyCredential
	AccountUsername string
	AccountPassword string
}

// ParseAccounts reads flat {proxy, username, password} triples.
func ParseAccounts(args []string) ([]SessionConfig, error) {
	if len(args) < accountFields {
		return nil, NewConfigError("accounts", ErrNotEnoughArguments)
	}
	if len(args)%accountFields != 0 {
		return nil, NewConfigError("accounts", fmt.Errorf("%w: %d trailing argument(s)", ErrIncompleteAccount, len(args)%accountFields))
	}

	accounts := make([]SessionConfig, 0, len(args)/accountFields)
	for i := 0; i < len(args); i += accountFields {
		proxy, err := ParseProxyCredential(args[i])
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, SessionConfig{
			Index:           i / accountFields,
			Proxy:           proxy,
			AccountUsername: args[i+1],
			AccountPassword: args[i+2],
		})
	}

	return accounts, nil
}

type accountsFile struct {
	Accounts []struct {
		Proxy    string `yaml:"proxy"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
	} `yaml:"accounts"`
}

// LoadAccountsFile reads accounts from a yaml file. Indexes continue after offset so file accounts
// can follow the ones given on the command line.
func LoadAccountsFile(path string, offset int) ([]SessionConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewConfigError("accounts-file", err)
	}

	var f accountsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, NewConfigError("accounts-file", fmt.Errorf("parse %s: %w", path, err))
	}

	accounts := make([]SessionConfig, 0, len(f.Accounts))
	for i, a := range f.Accounts {
		if a.Username == "" || a.Password == "" {
			return nil, NewConfigError("accounts-file", fmt.Errorf("%w: entry %d", ErrIncompleteAccount, i))
		}
		proxy, err := ParseProxyCredential(a.Proxy)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, SessionConfig{
			Index:           offset + i,
			Proxy:           proxy,
			AccountUsername: a.Username,
			AccountPassword: a.Password,
		})
	}

	return accounts, nil
}
