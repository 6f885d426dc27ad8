// Package wiredriver is a remote browser automation client that drives
// browsers over the WebDriver JSON Wire Protocol.
//
// The low level protocol plumbing (HTTP transport, response envelopes, and
// the protocol status code table) lives in the wire subpackage; this package
// layers the Server, Session and Element handles on top of it, plus the
// Command chain: a fluent, deferred execution facade that threads an
// implicit element scope through a sequence of remote operations.
//
// A Command is built from a Session and grows one link per fluent call.
// Nothing executes until the chain is observed with Value, Wait or Scope;
// sibling chains forked off a common prefix run concurrently once the shared
// prefix has settled.
//
//	srv := wiredriver.New("http://localhost:4444/wd/hub")
//	sess, err := srv.NewSession(ctx, wiredriver.Capabilities{
//		"browserName": "firefox",
//	}, nil)
//	if err != nil {
//		// ...
//	}
//	defer sess.Delete(context.Background())
//
//	texts, err := wiredriver.NewCommand(sess).
//		Get("https://golang.org").
//		FindAll(wiredriver.ByCSSSelector, ".downloadWrapper a").
//		Text().
//		Value(ctx)
//
// Find narrows the element scope of everything chained after it; End unwinds
// the narrowing again. Element operations run against every element in
// scope, concurrently, and report their results in scope order.
package wiredriver
