package avatar

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rolodexhq/rolodex/internal/application/ports"
)

const gravatarBase = "https://www.gravatar.com/avatar"

// GravatarSource resolves default avatars from Gravatar. Lookup requests the
// profile image with d=404 so an unregistered email yields an error rather
// than a placeholder image; callers treat that as "no avatar".
type GravatarSource struct {
	client *http.Client
}

func NewGravatarSource() *GravatarSource {
	return &GravatarSource{client: &http.Client{Timeout: 5 * time.Second}}
}

// URL returns the Gravatar URL for an email without any network round trip.
func URL(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return fmt.Sprintf("%s/%s", gravatarBase, hex.EncodeToString(sum[:]))
}

func (g *GravatarSource) Lookup(ctx context.Context, email string) (string, error) {
	url := URL(email)
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url+"?d=404", nil)
	if err != nil {
		return "", err
	}
	resp, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gravatar returned status %d", resp.StatusCode)
	}
	return url, nil
}

var _ ports.AvatarSource = (*GravatarSource)(nil)
