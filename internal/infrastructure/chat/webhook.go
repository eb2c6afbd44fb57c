package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"marcenaria_pro/internal/domain/entities"
	"marcenaria_pro/internal/usecase/interfaces"
)

var ErrMissingWebhookURL = errors.New("missing CHAT_WEBHOOK_URL")

// WebhookNotifier posts stage-completion messages to a chat webhook (Google
// Chat style: a JSON body with a "text" field). Delivery is best effort; the
// caller logs and moves on when it fails.
type WebhookNotifier struct {
	url    string
	client *http.Client
}

var _ interfaces.IChatNotifier = (*WebhookNotifier)(nil)

func NewWebhookNotifier() (*WebhookNotifier, error) {
	url := os.Getenv("CHAT_WEBHOOK_URL")
	if url == "" {
		return nil, ErrMissingWebhookURL
	}
	return &WebhookNotifier{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
	}, nil
}

func (n *WebhookNotifier) NotifyStageCompleted(ctx context.Context, p entities.Project, stage entities.StageID) error {
	text := fmt.Sprintf("Projeto %q (%s): etapa %s concluída", p.Name, p.ClientName, stage)
	if stage == entities.StageProjetoCancelado {
		text = fmt.Sprintf("Projeto %q (%s): projeto cancelado", p.Name, p.ClientName)
	}

	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("chat webhook returned status %d", resp.StatusCode)
	}
	log.Printf("[tracking][chat] stage notification sent project_id=%s stage=%s", p.ID, stage)
	return nil
}
