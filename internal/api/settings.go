package api

import (
	"context"
	"mime/multipart"
	"net/http"

	"dermalink/mobile/internal/models"
)

// UpdateSettings patches profile fields (and optionally the avatar) on the
// backend. The returned user is the authoritative record; callers write it
// back to the credential store instead of trusting their local guess.
func (c *Client) UpdateSettings(ctx context.Context, token string, fields map[string]string, avatar *Attachment) (models.User, error) {
	var out models.User
	err := c.doMultipart(ctx, http.MethodPatch, "/api/mobile/update_settings", token, func(mw *multipart.Writer) error {
		for key, value := range fields {
			if err := mw.WriteField("user["+key+"]", value); err != nil {
				return err
			}
		}
		if avatar != nil {
			if err := writeImagePart(mw, "user[avatar]", *avatar); err != nil {
				return err
			}
		}
		return nil
	}, &out)
	return out, err
}
