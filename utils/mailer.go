package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"time"
)

// Mailer relays account-request notifications to the admin through the
// Resend email API.
type Mailer struct {
	APIKey     string
	AdminEmail string
	Client     *http.Client
	Endpoint   string
}

func NewMailer(apiKey, adminEmail string) *Mailer {
	return &Mailer{
		APIKey:     apiKey,
		AdminEmail: adminEmail,
		Client:     &http.Client{Timeout: 15 * time.Second},
		Endpoint:   "https://api.resend.com/emails",
	}
}

// accountRequestBody auto-escapes the interpolated fields; request values
// are user-supplied and must never reach the notification as raw HTML.
var accountRequestBody = template.Must(template.New("account-request").Parse(`
<div style="background-color:#f9fafb;padding:20px;">
  <div style="max-width:600px;margin:0 auto;background-color:white;padding:30px;border-radius:8px;">
    <h2 style="color:#1f2937;">New Login Account Request</h2>
    <p style="color:#6b7280;">A new user has requested login access to the Trolley Seal Management System.</p>
    <table style="width:100%;border-collapse:collapse;margin-top:15px;">
      <tr style="background-color:#f9fafb;">
        <td style="padding:12px;border:1px solid #e5e7eb;font-weight:bold;">Username:</td>
        <td style="padding:12px;border:1px solid #e5e7eb;">{{.Username}}</td>
      </tr>
      <tr>
        <td style="padding:12px;border:1px solid #e5e7eb;font-weight:bold;">Email:</td>
        <td style="padding:12px;border:1px solid #e5e7eb;">{{.Email}}</td>
      </tr>
      <tr style="background-color:#f9fafb;">
        <td style="padding:12px;border:1px solid #e5e7eb;font-weight:bold;">Staff Number:</td>
        <td style="padding:12px;border:1px solid #e5e7eb;">{{.StaffNumber}}</td>
      </tr>
    </table>
    <p style="margin-top:30px;color:#6b7280;">Please create an account for this user in the system.</p>
  </div>
</div>`))

type AccountRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	StaffNumber string `json:"staffNumber"`
}

// SendAccountRequest composes and relays the notification email.
func (m *Mailer) SendAccountRequest(req AccountRequest) error {
	var body bytes.Buffer
	if err := accountRequestBody.Execute(&body, req); err != nil {
		return err
	}

	payload, err := json.Marshal(map[string]interface{}{
		"from":    "Trolley Seal System <onboarding@resend.dev>",
		"to":      []string{m.AdminEmail},
		"subject": "New Login Account Request",
		"html":    body.String(),
	})
	if err != nil {
		return err
	}

	httpReq, err := http.NewRequest(http.MethodPost, m.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+m.APIKey)

	resp, err := m.Client.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var apiErr struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		if apiErr.Message == "" {
			apiErr.Message = resp.Status
		}
		return fmt.Errorf("email relay failed: %s", apiErr.Message)
	}
	return nil
}
