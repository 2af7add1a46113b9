package tool

import (
	"fmt"
	"net/url"
)

// BuildDownloadURL builds the link handed to the QR presenter. The password,
// when set, rides along as the 'passed' query parameter so a scan needs no
// typing.
func BuildDownloadURL(ip string, port int, token, password string) string {
	base := fmt.Sprintf("http://%s:%d/%s", ip, port, token)
	if password == "" {
		return base
	}
	return base + "?passed=" + url.QueryEscape(password)
}
