package config

import (
	"errors"
	"flag"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-a server address in format [host]:[port]
//	-d database DSN
//	-cache overlay cache file path
//	-blob-url object storage base URL
//	-blob-key object storage service key
//	-c/-config json file path with configs
//	-request-timeout request timeout (e.g., "30s", "1m")
//	-autosave-interval auto-save worker interval (e.g., "5s")
//	-profile-key-column profiles table key column (id, user_id, auto)
//	-cover-position cover position persistence mode (remote, overlay, auto)
func ParseFlags() *StructuredConfig {
	var serverAddress NetAddress
	var databaseDSN string
	var cachePath string
	var blobBaseURL string
	var blobServiceKey string
	var jsonConfigPath string
	var requestTimeout time.Duration
	var autoSaveInterval time.Duration
	var profileKeyColumn string
	var coverPosition string

	flag.Var(&serverAddress, "a", "Net address host:port")
	flag.StringVar(&databaseDSN, "d", "", "Database DSN")
	flag.StringVar(&cachePath, "cache", "", "Overlay cache file path")
	flag.StringVar(&blobBaseURL, "blob-url", "", "Object storage base URL")
	flag.StringVar(&blobServiceKey, "blob-key", "", "Object storage service key")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	flag.DurationVar(&autoSaveInterval, "autosave-interval", 0, "Auto-save interval (e.g., 5s)")
	flag.StringVar(&profileKeyColumn, "profile-key-column", "", "Profiles key column (id, user_id, auto)")
	flag.StringVar(&coverPosition, "cover-position", "", "Cover position mode (remote, overlay, auto)")

	flag.Parse()

	return &StructuredConfig{
		Storage: Storage{
			DB: DB{
				DSN: databaseDSN,
			},
			Cache: Cache{
				Path: cachePath,
			},
		},
		Blob: Blob{
			BaseURL:    blobBaseURL,
			ServiceKey: blobServiceKey,
		},
		Server: Server{
			HTTPAddress:    serverAddress.String(),
			RequestTimeout: requestTimeout,
		},
		Workers: Workers{
			AutoSaveInterval: autoSaveInterval,
		},
		Schema: Schema{
			ProfileKeyColumn: profileKeyColumn,
			CoverPosition:    coverPosition,
		},
		JSONFilePath: jsonConfigPath,
	}
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns an empty string so the merge
// step can fall through to lower-priority sources.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is "localhost",
// and returns an error if the format or values are invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 {
		return errors.New("port number is a positive integer")
	}

	if host != "localhost" {
		ip := net.ParseIP(hostAndPort[0])
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
