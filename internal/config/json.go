package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

type StructuredJSONConfig struct {
	App struct {
		Version string `json:"version"`
	} `json:"app,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`

		Cache struct {
			Path string `json:"path"`
		} `json:"cache,omitempty"`
	} `json:"storage,omitempty"`

	Blob struct {
		BaseURL              string   `json:"base_url"`
		ServiceKey           string   `json:"service_key"`
		EntryImagesBucket    string   `json:"entry_images_bucket"`
		ProfileAvatarsBucket string   `json:"profile_avatars_bucket"`
		RequestTimeout       Duration `json:"request_timeout"`
	} `json:"blob,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"server,omitempty"`

	Workers struct {
		AutoSaveInterval Duration `json:"auto_save_interval"`
	} `json:"workers,omitempty"`

	Schema struct {
		ProfileKeyColumn string `json:"profile_key_column"`
		CoverPosition    string `json:"cover_position"`
	} `json:"schema,omitempty"`
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

	cfg := &StructuredConfig{
		App: App{
			Version: jsonCfg.App.Version,
		},
		Storage: Storage{
			DB: DB{
				DSN: jsonCfg.Storage.DB.DSN,
			},
			Cache: Cache{
				Path: jsonCfg.Storage.Cache.Path,
			},
		},
		Blob: Blob{
			BaseURL:              jsonCfg.Blob.BaseURL,
			ServiceKey:           jsonCfg.Blob.ServiceKey,
			EntryImagesBucket:    jsonCfg.Blob.EntryImagesBucket,
			ProfileAvatarsBucket: jsonCfg.Blob.ProfileAvatarsBucket,
			RequestTimeout:       time.Duration(jsonCfg.Blob.RequestTimeout),
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
		},
		Workers: Workers{
			AutoSaveInterval: time.Duration(jsonCfg.Workers.AutoSaveInterval),
		},
		Schema: Schema{
			ProfileKeyColumn: jsonCfg.Schema.ProfileKeyColumn,
			CoverPosition:    jsonCfg.Schema.CoverPosition,
		},
		JSONFilePath: "",
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
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
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
