package dispatch

import (
	"errors"
	"net/url"
	"strings"
)

// transportCause strips the *url.Error wrapper, whose message embeds the
// request URL. The Gemini credential travels in that URL.
func transportCause(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		return urlErr.Err
	}
	return err
}

// redact renders err with any occurrence of credential masked.
func redact(err error, credential string) string {
	msg := err.Error()
	if credential == "" {
		return msg
	}
	return strings.ReplaceAll(msg, credential, "REDACTED")
}
