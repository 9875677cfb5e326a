package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

type SlackField struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

type SlackAttachment struct {
	Color     string       `json:"color"`
	Title     string       `json:"title"`
	Text      string       `json:"text"`
	Fields    []SlackField `json:"fields"`
	Footer    string       `json:"footer"`
	Timestamp int64        `json:"ts"`
}

type SlackWebhookRequest struct {
	Username    string            `json:"username"`
	IconEmoji   string            `json:"icon_emoji,omitempty"`
	Text        string            `json:"text"`
	Attachments []SlackAttachment `json:"attachments"`
}

const notifyUsername = "ContextHub"

// SendAccountDeletedNotification posts an ops-channel message after an
// account teardown commits. Best-effort: callers log failures and move on.
func SendAccountDeletedNotification(webhookURL string, userID uint, email string) error {
	payload := SlackWebhookRequest{
		Username: notifyUsername,
		Text:     "Account deleted",
		Attachments: []SlackAttachment{
			{
				Color: "#FFA500",
				Title: "Account teardown completed",
				Fields: []SlackField{
					{Title: "User ID", Value: fmt.Sprintf("%d", userID), Short: true},
					{Title: "Email", Value: email, Short: true},
				},
				Footer:    notifyUsername,
				Timestamp: time.Now().Unix(),
			},
		},
	}

	body, err := json.Marshal(payload)

	if err != nil {
		return err
	}

	client := &http.Client{Timeout: 10 * time.Second}

	resp, err := client.Post(webhookURL, "application/json", bytes.NewReader(body))

	if err != nil {
		return err
	}

	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook returned %s", resp.Status)
	}

	return nil
}
