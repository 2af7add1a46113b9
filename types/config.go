package types

// AppConfig represents the small persisted configuration file. Only the
// last-used network interface is remembered between runs; session and
// counter data stay in memory for the process lifetime.
type AppConfig struct {
	Interface string `yaml:"interface,omitempty"`
}

// Config holds runtime overrides from CLI flags.
type Config struct {
	Paths         []string // files or directories to offer
	Zip           bool     // bundle inputs into one archive even for a single file
	Interface     string   // network interface to bind, overrides the persisted one
	ExpireSeconds int      // link lifetime in seconds, 0 = never expires
	Password      string   // shared secret required to download
	Port          int      // listen port, 0 picks a free one
	ConfigPath    string   // override config file path
	QROutPath     string   // also write the QR code as a PNG to this path
	PrintJson     bool     // print a JSON session descriptor to stdout
	Log           string   // log mode: dev|prod|none
	RateLimit     int      // per-client requests per second, 0 = unlimited
}
