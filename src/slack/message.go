// Package slack implements the incoming-webhook payload and its delivery.
package slack

// Message is the webhook payload. The resource always sends exactly one
// attachment.
type Message struct {
	Channel     *string      `json:"channel,omitempty"`
	Attachments []Attachment `json:"attachments"`
}

// Attachment is a legacy Slack message attachment.
type Attachment struct {
	AuthorName string   `json:"author_name,omitempty"`
	AuthorLink string   `json:"author_link,omitempty"`
	Text       string   `json:"text,omitempty"`
	Color      string   `json:"color,omitempty"`
	Fields     []Field  `json:"fields,omitempty"`
	Footer     string   `json:"footer,omitempty"`
	FooterIcon string   `json:"footer_icon,omitempty"`
	MrkdwnIn   []string `json:"mrkdwn_in,omitempty"`
}

// Field is a short title/value pair rendered in a table.
type Field struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}
