package cmd

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	mssql "github.com/microsoft/go-mssqldb"
	"github.com/microsoft/go-mssqldb/azuread"
	"github.com/microsoft/go-mssqldb/msdsn"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/proxy"
	"gopkg.in/yaml.v3"
)

// DatabaseConfig names one entry in sqlcore.yaml: an importable catalog
// source reachable over a SQL Server connection string, optionally routed
// through a SOCKS5 proxy via SQL_SOCKS.
type DatabaseConfig struct {
	Connection string `yaml:"connection"`
	Dsn        msdsn.Config
}

// OpenSocks5Sql opens a *sql.DB against dsn, routing through SQL_SOCKS's
// SOCKS5 proxy address if set.
func OpenSocks5Sql(dsn string) (*sql.DB, error) {
	var err error
	var connector *mssql.Connector

	switch {
	case strings.HasPrefix(dsn, "azuresql://"):
		connector, err = azuread.NewConnector(dsn)
	case strings.HasPrefix(dsn, "sqlserver://"):
		connector, err = mssql.NewConnector(dsn)
	default:
		return nil, errors.New("expected URI-style dsn; sqlserver:// for password login or azuresql:// for AD login")
	}
	if err != nil {
		return nil, err
	}

	if socksProxyAddress := os.Getenv("SQL_SOCKS"); socksProxyAddress != "" {
		dialer, err := proxy.SOCKS5("tcp", socksProxyAddress, nil, nil)
		if err != nil {
			return nil, fmt.Errorf("could not connect with SOCKS5 to %s because of: %w", socksProxyAddress, err)
		}
		connector.Dialer = dialer.(proxy.ContextDialer)
	}

	return sql.OpenDB(connector), nil
}

func (dbcfg DatabaseConfig) Open(ctx context.Context, logger logrus.FieldLogger) (*sql.DB, error) {
	return OpenSocks5Sql(dbcfg.Connection)
}

// Config is the full sqlcore.yaml shape: named catalog database sources.
type Config struct {
	Databases map[string]DatabaseConfig `yaml:"databases"`
}

// LoadConfig reads sqlcore.yaml from the current directory.
func LoadConfig() (Config, error) {
	var result Config

	data, err := os.ReadFile("sqlcore.yaml")
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, errors.New("no sqlcore.yaml found in current directory")
		}
		return Config{}, err
	}
	if err := yaml.Unmarshal(data, &result); err != nil {
		return Config{}, err
	}
	return result, nil
}
