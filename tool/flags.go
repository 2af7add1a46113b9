package tool

import (
	"flag"
	"fmt"
	"os"

	"github.com/moyoez/qrdrop/types"
)

// SetFlags parses CLI flags and returns the override config. Positional
// arguments are the files or directories to offer.
func SetFlags() types.Config {
	var cfg types.Config
	flag.BoolVar(&cfg.Zip, "zip", false, "bundle inputs into a single zip archive before serving")
	flag.StringVar(&cfg.Interface, "interface", "", "network interface to bind (e.g. 'en0', 'eth0'); default is the interface facing the default gateway")
	flag.IntVar(&cfg.ExpireSeconds, "expire", 0, "seconds before the link expires (0 = never)")
	flag.StringVar(&cfg.Password, "password", "", "password required to download (via '?passed=SECRET' or the X-Password header)")
	flag.IntVar(&cfg.Port, "port", 0, "listen port (0 = pick a free port)")
	flag.StringVar(&cfg.ConfigPath, "configPath", "", "override config file path")
	flag.StringVar(&cfg.QROutPath, "qrOut", "", "also write the QR code as a PNG to this path")
	flag.BoolVar(&cfg.PrintJson, "printJson", false, "print a JSON session descriptor to stdout")
	flag.StringVar(&cfg.Log, "log", "", "log mode: dev|prod|none")
	flag.IntVar(&cfg.RateLimit, "rateLimit", 0, "max requests per second per client IP (0 = unlimited)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] PATH [PATH...]\n\nServe files on the local network behind a one-time QR code link.\n\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	cfg.Paths = flag.Args()
	return cfg
}
