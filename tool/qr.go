package tool

import (
	"os"

	"github.com/mdp/qrterminal/v3"
	qrcode "github.com/skip2/go-qrcode"
)

// Half-block characters keep the terminal QR small enough for phone cameras.
const (
	blackWhite = "▄"
	blackBlack = " "
	whiteBlack = "▀"
	whiteWhite = "█"
)

// RenderTerminalQR draws the download URL as a QR code on stdout.
func RenderTerminalQR(url string) {
	config := qrterminal.Config{
		Level:          qrterminal.M,
		Writer:         os.Stdout,
		HalfBlocks:     true,
		BlackChar:      blackBlack,
		WhiteBlackChar: whiteBlack,
		WhiteChar:      whiteWhite,
		BlackWhiteChar: blackWhite,
		QuietZone:      1,
	}
	qrterminal.GenerateWithConfig(url, config)
}

// WriteQRPNG writes the download URL as a QR code PNG, for the -qrOut flag.
func WriteQRPNG(url, path string) error {
	return qrcode.WriteFile(url, qrcode.Medium, 256, path)
}
