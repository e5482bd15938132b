package services

import "strings"

const defaultAcknowledgment = "Message received and processed."

// composeReply assembles the final user-facing reply from the parts each
// pipeline stage contributed, in stage order.
func composeReply(parts []string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	if len(kept) == 0 {
		return defaultAcknowledgment
	}
	return strings.Join(kept, "\n\n")
}
