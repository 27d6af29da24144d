package message

import (
	"regexp"
	"strings"

	"concourse-slack-notifier/src/contracts"
)

const iconBaseURL = "https://ci.concourse-ci.org/public/images/"

// Style is the colour and footer icon of an alert.
type Style struct {
	Color   string
	IconURL string
}

var (
	succeeded = Style{Color: "#32cd32", IconURL: iconBaseURL + "favicon-succeeded.png"}
	failed    = Style{Color: "#d00000", IconURL: iconBaseURL + "favicon-failed.png"}
)

var palette = map[contracts.AlertType]Style{
	contracts.AlertSuccess: succeeded,
	contracts.AlertFixed:   succeeded,
	contracts.AlertFailed:  failed,
	contracts.AlertBroke:   failed,
	contracts.AlertStarted: {Color: "#f7cd42", IconURL: iconBaseURL + "favicon-started.png"},
	contracts.AlertAborted: {Color: "#8d4b32", IconURL: iconBaseURL + "favicon-aborted.png"},
	contracts.AlertErrored: {Color: "#f5a623", IconURL: iconBaseURL + "favicon-errored.png"},
	contracts.AlertCustom:  {Color: "#35495c", IconURL: iconBaseURL + "favicon-pending.png"},
}

var hexColor = regexp.MustCompile(`^#?[0-9a-fA-F]{6}$`)

// StyleFor returns the style of alert with an optional colour override
// applied. Unknown alert types get the custom style.
func StyleFor(alert contracts.AlertType, color *string) Style {
	style, ok := palette[alert]
	if !ok {
		style = palette[contracts.AlertCustom]
	}
	if color != nil && *color != "" {
		style.Color = normalizeColor(*color)
	}
	return style
}

// normalizeColor adds the leading '#' to bare hex colours. Anything else is
// passed through so Slack keywords like "good" keep working.
func normalizeColor(c string) string {
	c = strings.TrimSpace(c)
	if hexColor.MatchString(c) && !strings.HasPrefix(c, "#") {
		return "#" + c
	}
	return c
}
