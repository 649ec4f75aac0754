package config

import "time"

// defaultConfig returns the built-in fallback values. It is merged last, so
// it only fills fields no other source provided.
func defaultConfig() *StructuredConfig {
	return &StructuredConfig{
		Storage: Storage{
			Cache: Cache{
				Path: "journal-overlay.db",
			},
		},
		Blob: Blob{
			EntryImagesBucket:    "entry-images",
			ProfileAvatarsBucket: "profile-avatars",
			RequestTimeout:       15 * time.Second,
		},
		Server: Server{
			HTTPAddress:    "localhost:8080",
			RequestTimeout: 30 * time.Second,
		},
		Workers: Workers{
			AutoSaveInterval: 5 * time.Second,
		},
		Schema: Schema{
			ProfileKeyColumn: ProfileKeyAuto,
			CoverPosition:    CoverPositionAuto,
		},
	}
}
