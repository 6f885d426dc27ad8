package wiredriver

import (
	"context"
)

// Screenshot resolves with the PNG data of a screenshot of the current
// page.
func (c *Command) Screenshot() *Command {
	return c.sessionOp(opDesc{name: "screenshot"}, func(ctx context.Context, s *Session) (interface{}, error) {
		return s.Screenshot(ctx)
	})
}

// PrintPDF resolves with the current page rendered as a PDF document.
func (c *Command) PrintPDF() *Command {
	return c.sessionOp(opDesc{name: "print"}, func(ctx context.Context, s *Session) (interface{}, error) {
		return s.PrintPDF(ctx)
	})
}
