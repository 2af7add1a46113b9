package tool

import (
	"fmt"
	"time"

	"github.com/bytedance/sonic"

	"github.com/moyoez/qrdrop/types"
)

// PrintSessionSummary emits the -printJson descriptor on stdout so scripts
// can pick up the URL without scraping log output.
func PrintSessionSummary(session *types.Session, url string) error {
	summary := types.SessionSummary{
		SessionId: session.SessionId,
		URL:       url,
		Token:     session.Token,
		FileName:  session.FileName,
		Protected: session.Password != "",
	}
	if !session.ExpiresAt.IsZero() {
		summary.ExpiresAt = session.ExpiresAt.Format(time.RFC3339)
	}
	data, err := sonic.Marshal(&summary)
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
