// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig is the on-disk shape of the optional JSON config file.
type StructuredJSONConfig struct {
	App struct {
		Profile            string   `json:"profile"`
		TokenSignKey       string   `json:"token_sign_key"`
		TokenDuration      Duration `json:"token_duration"`
		PasswordIterations int      `json:"password_iterations"`
		NonceTTL           Duration `json:"nonce_ttl"`
		MaxDeckBytes       int64    `json:"max_deck_bytes"`
		LoginMaxFailures   int      `json:"login_max_failures"`
		LoginFailureWindow Duration `json:"login_failure_window"`
		Version            string   `json:"version"`
	} `json:"app,omitempty"`

	Storage struct {
		Driver string `json:"driver"`
		DB     struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`
		Badger struct {
			Dir string `json:"dir"`
		} `json:"badger,omitempty"`
		S3 struct {
			Bucket    string `json:"bucket"`
			Region    string `json:"region"`
			Endpoint  string `json:"endpoint"`
			AccessKey string `json:"access_key"`
			SecretKey string `json:"secret_key"`
			Prefix    string `json:"prefix"`
		} `json:"s3,omitempty"`
		SweepInterval Duration `json:"sweep_interval"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
		StaticDir      string   `json:"static_dir"`
		AllowedOrigins []string `json:"allowed_origins"`
		AuthRateLimit  int      `json:"auth_rate_limit"`
		AuthRateBurst  int      `json:"auth_rate_burst"`
	} `json:"server,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	return &StructuredConfig{
		App: App{
			Profile:            jsonCfg.App.Profile,
			TokenSignKey:       jsonCfg.App.TokenSignKey,
			TokenDuration:      time.Duration(jsonCfg.App.TokenDuration),
			PasswordIterations: jsonCfg.App.PasswordIterations,
			NonceTTL:           time.Duration(jsonCfg.App.NonceTTL),
			MaxDeckBytes:       jsonCfg.App.MaxDeckBytes,
			LoginMaxFailures:   jsonCfg.App.LoginMaxFailures,
			LoginFailureWindow: time.Duration(jsonCfg.App.LoginFailureWindow),
			Version:            jsonCfg.App.Version,
		},
		Storage: Storage{
			Driver: jsonCfg.Storage.Driver,
			DB:     DB{DSN: jsonCfg.Storage.DB.DSN},
			Badger: Badger{Dir: jsonCfg.Storage.Badger.Dir},
			S3: S3{
				Bucket:    jsonCfg.Storage.S3.Bucket,
				Region:    jsonCfg.Storage.S3.Region,
				Endpoint:  jsonCfg.Storage.S3.Endpoint,
				AccessKey: jsonCfg.Storage.S3.AccessKey,
				SecretKey: jsonCfg.Storage.S3.SecretKey,
				Prefix:    jsonCfg.Storage.S3.Prefix,
			},
			SweepInterval: time.Duration(jsonCfg.Storage.SweepInterval),
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
			StaticDir:      jsonCfg.Server.StaticDir,
			AllowedOrigins: jsonCfg.Server.AllowedOrigins,
			AuthRateLimit:  jsonCfg.Server.AuthRateLimit,
			AuthRateBurst:  jsonCfg.Server.AuthRateBurst,
		},
	}, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling
// from strings like "1h", "30s" as well as integer nanoseconds.
type Duration time.Duration

// UnmarshalJSON implements [json.Unmarshaler].
func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return fmt.Errorf("invalid duration %s", string(b))
	}
}

// MarshalJSON implements [json.Marshaler].
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
