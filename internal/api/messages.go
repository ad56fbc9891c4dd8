package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"

	"dermalink/mobile/internal/ids"
	"dermalink/mobile/internal/media/sniffer"
	"dermalink/mobile/internal/models"
)

// Attachment is an image to attach to an outgoing message or profile update.
// Its content type is sniffed from the bytes, not trusted from the filename.
type Attachment struct {
	Name   string
	Reader io.Reader
}

func (c *Client) Messages(ctx context.Context, token string) ([]models.Message, error) {
	var out []models.Message
	err := c.do(ctx, http.MethodGet, "/api/mobile/messages", token, nil, &out)
	return out, err
}

// SendMessage posts a chat message with optional image attachments as the
// Rails backend expects them: nested message[...] multipart fields. The
// returned client id lets the live stream dedupe the echo of our own send.
func (c *Client) SendMessage(ctx context.Context, token, senderID, body string, images []Attachment) (string, error) {
	if body == "" && len(images) == 0 {
		return "", fmt.Errorf("empty message")
	}

	clientID := ids.New()
	err := c.doMultipart(ctx, http.MethodPost, "/api/mobile/messages", token, func(mw *multipart.Writer) error {
		if err := mw.WriteField("message[body]", body); err != nil {
			return err
		}
		if err := mw.WriteField("message[sender_id]", senderID); err != nil {
			return err
		}
		if err := mw.WriteField("message[client_id]", clientID); err != nil {
			return err
		}
		for _, img := range images {
			if err := writeImagePart(mw, "message[images][]", img); err != nil {
				return err
			}
		}
		return nil
	}, nil)
	if err != nil {
		return "", err
	}
	return clientID, nil
}

func writeImagePart(mw *multipart.Writer, field string, img Attachment) error {
	result, head, err := sniffer.Detect(img.Reader)
	if err != nil {
		return fmt.Errorf("sniff %s: %w", img.Name, err)
	}

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, img.Name))
	header.Set("Content-Type", result.MIME)

	part, err := mw.CreatePart(header)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, io.MultiReader(bytes.NewReader(head), img.Reader)); err != nil {
		return fmt.Errorf("copy %s: %w", img.Name, err)
	}
	return nil
}
