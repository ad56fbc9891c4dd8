package api

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"

	"dermalink/mobile/internal/models"
)

// Predict uploads a skin photo to the remote classifier. The model answers
// HTTP 500 when the picture is not skin at all; that is a user-facing
// verdict, not an outage.
func (c *Client) Predict(ctx context.Context, token, userID string, image Attachment) (models.Prediction, error) {
	var out models.Prediction
	err := c.doMultipart(ctx, http.MethodPost, "/api/mobile/predict/"+userID, token, func(mw *multipart.Writer) error {
		return writeImagePart(mw, "file", image)
	}, &out)
	if err != nil {
		var se *statusError
		if errors.As(err, &se) && se.status == http.StatusInternalServerError {
			return models.Prediction{}, ErrNotSkinImage
		}
		return models.Prediction{}, err
	}
	return out, nil
}
