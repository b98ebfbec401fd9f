// Package ussd implements the gateway callback endpoint and the dialog
// state machine behind it.
package ussd

// Reply is one turn's answer to the gateway. The wire format is the
// aggregator contract: a "CON " or "END " prefix followed by the menu text.
// CON asks the handset for another input; END terminates the dialog.
type Reply struct {
	End  bool
	Text string
}

// Con builds a continue reply.
func Con(text string) *Reply {
	return &Reply{Text: text}
}

// EndWith builds a terminating reply.
func EndWith(text string) *Reply {
	return &Reply{End: true, Text: text}
}

// Wire renders the reply in the aggregator's two-token format.
func (r *Reply) Wire() string {
	if r.End {
		return "END " + r.Text
	}
	return "CON " + r.Text
}
