package database

import (
	"testing"

	"github.com/Alijeyrad/eunoia_backend/config"
)

func TestBuildDSN(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{
			name: "plain",
			cfg:  Config{Host: "db", Port: 5432, User: "eunoia", Password: "secret", DBName: "eunoia", SSLMode: "disable"},
			want: "host=db port=5432 user=eunoia dbname=eunoia sslmode=disable password=secret",
		},
		{
			name: "no password",
			cfg:  Config{Host: "db", Port: 5432, User: "eunoia", DBName: "eunoia", SSLMode: "require"},
			want: "host=db port=5432 user=eunoia dbname=eunoia sslmode=require",
		},
		{
			name: "quoted password",
			cfg:  Config{Host: "db", Port: 5432, User: "u", Password: "it's a pass", DBName: "d", SSLMode: "disable"},
			want: `host=db port=5432 user=u dbname=d sslmode=disable password='it\'s a pass'`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.DSN(); got != tt.want {
				t.Errorf("DSN() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFromCentralConfig_Defaults(t *testing.T) {
	got := FromCentralConfig(config.DatabaseConfig{User: "u"})
	def := DefaultConfig()
	if got.Host != def.Host || got.Port != def.Port || got.DBName != def.DBName || got.MaxOpenConns != def.MaxOpenConns {
		t.Errorf("FromCentralConfig() = %+v, want defaults %+v", got, def)
	}

	got = FromCentralConfig(config.DatabaseConfig{Host: "pg", Port: 6543, Pool: config.DatabasePoolConfig{MaxOpenConns: 3}})
	if got.Host != "pg" || got.Port != 6543 || got.MaxOpenConns != 3 {
		t.Errorf("FromCentralConfig() = %+v", got)
	}
}
