package federation

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
)

// Profile is the provider independent view of a federated identity.
type Profile struct {
	Provider       string
	ProviderUserID string
	Email          string
	Username       string
	AvatarURL      string
}

// DiscordCDN serves user avatars by id and hash.
const DiscordCDN = "https://cdn.discordapp.com"

// MapProfile converts a provider's user-info document into a Profile. An
// address the provider reports as unverified is refused with
// ErrProfileIncomplete, since local accounts are created already verified.
func MapProfile(provider string, raw map[string]any) (Profile, error) {
	p := Profile{Provider: provider}

	switch provider {
	case Google:
		p.ProviderUserID = str(raw, "sub")
		p.Email = str(raw, "email")
		p.Username = str(raw, "name")
		p.AvatarURL = str(raw, "picture")
		if flaggedFalse(raw, "email_verified") {
			return Profile{}, fmt.Errorf("%w: email not verified", ErrProfileIncomplete)
		}
	case GitHub:
		p.ProviderUserID = str(raw, "id")
		p.Email = str(raw, "email")
		p.Username = str(raw, "login")
		p.AvatarURL = str(raw, "avatar_url")
	case Discord:
		p.ProviderUserID = str(raw, "id")
		p.Email = str(raw, "email")
		p.Username = str(raw, "global_name")
		if p.Username == "" {
			p.Username = str(raw, "username")
		}
		if flaggedFalse(raw, "verified") {
			return Profile{}, fmt.Errorf("%w: email not verified", ErrProfileIncomplete)
		}
		if hash := str(raw, "avatar"); hash != "" && p.ProviderUserID != "" {
			p.AvatarURL = fmt.Sprintf("%s/avatars/%s/%s.png", DiscordCDN, p.ProviderUserID, hash)
		}
	default:
		return Profile{}, fmt.Errorf("%w: %q", ErrUnsupportedProvider, provider)
	}

	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	if p.Username == "" {
		p.Username, _, _ = strings.Cut(p.Email, "@")
	}
	return p, nil
}

// FetchProfile loads and maps the signed-in user's profile. GitHub hides
// private addresses from /user, so the primary verified address is taken
// from /user/emails when needed.
func (p *Provider) FetchProfile(ctx context.Context, tok *oauth2.Token) (Profile, error) {
	client := p.Client(ctx, tok)

	var raw map[string]any
	if err := getJSON(ctx, client, p.UserInfoURL, &raw); err != nil {
		return Profile{}, err
	}

	profile, err := MapProfile(p.Name, raw)
	if err != nil {
		return Profile{}, err
	}

	if profile.Email == "" && p.EmailsURL != "" {
		var emails []struct {
			Email    string `json:"email"`
			Primary  bool   `json:"primary"`
			Verified bool   `json:"verified"`
		}
		if err := getJSON(ctx, client, p.EmailsURL, &emails); err != nil {
			return Profile{}, err
		}
		for _, e := range emails {
			if e.Primary && e.Verified {
				profile.Email = strings.ToLower(e.Email)
				break
			}
		}
	}

	if profile.Email == "" || profile.ProviderUserID == "" {
		return Profile{}, ErrProfileIncomplete
	}
	return profile, nil
}

func getJSON(ctx context.Context, client *http.Client, url string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch profile: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("fetch profile: status %d: %s", resp.StatusCode, body)
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("decode profile: %w", err)
	}
	return nil
}

// str reads a string-ish field; numeric ids come back as json.Number.
func str(raw map[string]any, key string) string {
	switch v := raw[key].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return fmt.Sprintf("%.0f", v)
	default:
		return ""
	}
}

// flaggedFalse reports whether key is present and false. Google has served
// email_verified both as a boolean and as a string.
func flaggedFalse(raw map[string]any, key string) bool {
	switch v := raw[key].(type) {
	case bool:
		return !v
	case string:
		return strings.EqualFold(v, "false")
	default:
		return false
	}
}
