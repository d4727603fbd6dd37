package instagram

import (
	"bufio"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"strings"

	"github.com/angelmondragon/theta/pkg/config"
	json "github.com/goccy/go-json"
	"go.uber.org/multierr"
	"golang.org/x/net/publicsuffix"
)

const (
	payloadVariablesKey = "variables"
	shortcodeVariable   = "shortcode"
	httpOnlyPrefix      = "#HttpOnly_"
)

// Credentials are the session artifacts replayed on every GraphQL call.
// They are loaded once and never mutated afterwards.
type Credentials struct {
	Headers http.Header
	Jar     http.CookieJar
	// Payload holds literal form values; Variables is the decoded "variables" object.
	Payload   map[string]string
	Variables map[string]any
}

// LoadCredentials reads the header, cookie and payload files named in cfg.
// All three are attempted so a single error reports every broken file.
func LoadCredentials(cfg config.InstagramConfig) (*Credentials, error) {
	creds := &Credentials{}
	var errs error

	if err := readFile(cfg.HeadersFile, func(r io.Reader) (err error) {
		creds.Headers, err = ParseHeaders(r)
		return err
	}); err != nil {
		errs = multierr.Append(errs, err)
	}

	if err := readFile(cfg.CookiesFile, func(r io.Reader) error {
		cookies, err := ParseCookies(r)
		if err != nil {
			return err
		}
		creds.Jar, err = NewJar(cookies)
		return err
	}); err != nil {
		errs = multierr.Append(errs, err)
	}

	if err := readFile(cfg.PayloadFile, func(r io.Reader) (err error) {
		creds.Payload, creds.Variables, err = ParsePayload(r)
		return err
	}); err != nil {
		errs = multierr.Append(errs, err)
	}

	if errs != nil {
		return nil, errs
	}
	return creds, nil
}

func readFile(path string, parse func(io.Reader) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()
	if err := parse(f); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// ParseHeaders reads "Key: Value" lines. Lines without the separator are ignored.
func ParseHeaders(r io.Reader) (http.Header, error) {
	headers := http.Header{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		key, value, ok := strings.Cut(scanner.Text(), ": ")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		headers.Set(key, strings.TrimSpace(value))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return headers, nil
}

// ParseCookies reads a Netscape/Mozilla cookies.txt export.
// Expiry is ignored and session cookies are kept.
func ParseCookies(r io.Reader) ([]*http.Cookie, error) {
	var cookies []*http.Cookie
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r\n")
		httpOnly := false
		if strings.HasPrefix(line, httpOnlyPrefix) {
			httpOnly = true
			line = strings.TrimPrefix(line, httpOnlyPrefix)
		}
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}

		cols := strings.Split(line, "\t")
		if len(cols) != 7 {
			return nil, fmt.Errorf("line %d: expected 7 tab-separated fields, got %d", lineNo, len(cols))
		}
		domain := strings.TrimSpace(cols[0])
		if domain == "" {
			return nil, fmt.Errorf("line %d: empty domain", lineNo)
		}
		cookie := &http.Cookie{
			Domain:   domain,
			Path:     cols[2],
			Secure:   strings.EqualFold(cols[3], "TRUE"),
			Name:     cols[5],
			Value:    cols[6],
			HttpOnly: httpOnly,
		}
		if cookie.Path == "" {
			cookie.Path = "/"
		}
		cookies = append(cookies, cookie)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return cookies, nil
}

// NewJar loads cookies into a jar that matches domains against the public suffix list.
func NewJar(cookies []*http.Cookie) (http.CookieJar, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, err
	}
	for _, c := range cookies {
		host := strings.TrimPrefix(c.Domain, ".")
		u := &url.URL{Scheme: "https", Host: host, Path: c.Path}
		jar.SetCookies(u, []*http.Cookie{c})
	}
	return jar, nil
}

// ParsePayload reads "key\tvalue" lines. The "variables" value is decoded as a JSON object;
// every other value is kept verbatim.
func ParsePayload(r io.Reader) (map[string]string, map[string]any, error) {
	payload := map[string]string{}
	variables := map[string]any{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		key, value, ok := strings.Cut(line, "\t")
		if !ok {
			return nil, nil, fmt.Errorf("line %d: missing tab separator", lineNo)
		}
		if key == payloadVariablesKey {
			if err := json.Unmarshal([]byte(value), &variables); err != nil {
				return nil, nil, fmt.Errorf("line %d: decode variables: %w", lineNo, err)
			}
			if variables == nil {
				variables = map[string]any{}
			}
			continue
		}
		payload[key] = value
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, err
	}
	return payload, variables, nil
}

// body renders the request payload for shortcode without touching the template.
func (c *Credentials) body(shortcode string) ([]byte, error) {
	vars := make(map[string]any, len(c.Variables)+1)
	for k, v := range c.Variables {
		vars[k] = v
	}
	vars[shortcodeVariable] = shortcode

	out := make(map[string]any, len(c.Payload)+1)
	for k, v := range c.Payload {
		out[k] = v
	}
	out[payloadVariablesKey] = vars
	return json.Marshal(out)
}
