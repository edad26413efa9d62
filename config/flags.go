package config

import "time"

// Values bound to command line flags.
var (
	ConfigFile string
	Network    string
	Node       string

	PrivateKey    string
	KeystoreFile  string
	KeystorePass  string
	KeyFile       string
	Owner         string
	// DontBroadcast prints the prepared call instead of sending it.
	DontBroadcast bool
	NoConfirm     bool
	MaxWait       time.Duration
	ExtraGasLimit uint64
	MaxFee        string

	Avatar   string
	Twitter  string
	Telegram string

	NamesOnly bool
	AllNames  bool

	Listen     string
	JSONOutput bool
	LogLevel   string
)
