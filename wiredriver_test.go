package wiredriver

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

// fakeNode is one node of the fake driver's DOM.
type fakeNode struct {
	id       string
	selector string
	tag      string
	text     string
	attrs    map[string]string
	children []string
}

// fakeDriver is an in-process JSON Wire Protocol remote end with a small
// fixed DOM, used to exercise the client without a browser.
type fakeDriver struct {
	srv *httptest.Server

	mu       sync.Mutex
	nodes    map[string]*fakeNode
	top      []string
	requests []string

	// per-element knobs
	textDelay map[string]time.Duration
	textErr   map[string]int
	sameNode  map[string]string

	// session knobs
	caps       Capabilities
	clickDelay time.Duration
	clicks     []string
	keys       map[string]string
	exec       func(script string, args []json.RawMessage) (interface{}, int)
	screenshot []byte
	pdf        []byte
	cookies    []json.RawMessage
}

func newFakeDriver(t *testing.T) *fakeDriver {
	t.Helper()

	d := &fakeDriver{
		nodes:     make(map[string]*fakeNode),
		textDelay: make(map[string]time.Duration),
		textErr:   make(map[string]int),
		sameNode:  make(map[string]string),
		keys:      make(map[string]string),
		caps:      Capabilities{"browserName": "fake"},
	}
	d.addNode(&fakeNode{id: "list", selector: "#list", tag: "ul", children: []string{"li1", "li2", "li3"}})
	d.addNode(&fakeNode{id: "li1", selector: "li", tag: "li", text: "one"})
	d.addNode(&fakeNode{id: "li2", selector: "li", tag: "li", text: "two"})
	d.addNode(&fakeNode{id: "li3", selector: "li", tag: "li", text: "three"})
	d.addNode(&fakeNode{id: "list2", selector: "#list2", tag: "ul", children: []string{"li4", "li5", "deep"}})
	d.addNode(&fakeNode{id: "li4", selector: "li", tag: "li", text: "four"})
	d.addNode(&fakeNode{id: "li5", selector: "li", tag: "li", text: "five"})
	d.addNode(&fakeNode{id: "deep", selector: ".deep", tag: "span", text: "deep"})
	d.addNode(&fakeNode{id: "button", selector: "#button", tag: "button", text: "ok", attrs: map[string]string{"type": "submit"}})
	d.addNode(&fakeNode{id: "input", selector: "#input", tag: "input"})
	d.top = []string{"list", "list2", "button", "input"}

	d.srv = httptest.NewServer(d)
	t.Cleanup(d.srv.Close)
	return d
}

func (d *fakeDriver) addNode(n *fakeNode) {
	if n.attrs == nil {
		n.attrs = make(map[string]string)
	}
	d.nodes[n.id] = n
}

// reply writes a JSON Wire response envelope.
func reply(w http.ResponseWriter, status int, value interface{}) {
	w.Header().Set("Content-Type", "application/json;charset=utf-8")
	if status != 0 {
		w.WriteHeader(http.StatusInternalServerError)
	}
	json.NewEncoder(w).Encode(map[string]interface{}{
		"sessionId": "fake-session",
		"status":    status,
		"value":     value,
	})
}

func replyErr(w http.ResponseWriter, status int, msg string) {
	reply(w, status, map[string]interface{}{"message": msg})
}

func elementRef(id string) map[string]string {
	return map[string]string{"ELEMENT": id}
}

func elementRefs(ids []string) []map[string]string {
	refs := make([]map[string]string, len(ids))
	for i, id := range ids {
		refs[i] = elementRef(id)
	}
	return refs
}

// findIn returns the ids in scope matching sel by selector or tag name.
func (d *fakeDriver) findIn(scope []string, sel string) []string {
	var out []string
	for _, id := range scope {
		n := d.nodes[id]
		if n != nil && (n.selector == sel || n.tag == sel) {
			out = append(out, id)
		}
	}
	return out
}

func readParams(r *http.Request) map[string]json.RawMessage {
	params := make(map[string]json.RawMessage)
	buf, err := io.ReadAll(r.Body)
	if err != nil {
		return params
	}
	json.Unmarshal(buf, &params)
	return params
}

func stringParam(params map[string]json.RawMessage, name string) string {
	var v string
	json.Unmarshal(params[name], &v)
	return v
}

func (d *fakeDriver) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.Trim(r.URL.Path, "/")
	parts := strings.Split(path, "/")

	d.mu.Lock()
	d.requests = append(d.requests, r.Method+" "+path)
	d.mu.Unlock()

	switch {
	case path == "status":
		reply(w, 0, map[string]interface{}{"ready": true})
		return
	case path == "session" && r.Method == http.MethodPost:
		d.mu.Lock()
		caps := d.caps.clone()
		d.mu.Unlock()
		reply(w, 0, caps)
		return
	case path == "sessions":
		d.mu.Lock()
		caps := d.caps.clone()
		d.mu.Unlock()
		reply(w, 0, []map[string]interface{}{
			{"id": "fake-session", "capabilities": caps},
		})
		return
	}

	if len(parts) < 2 || parts[0] != "session" {
		replyErr(w, 9, "unknown command: "+r.Method+" "+path)
		return
	}
	rest := parts[2:]

	switch {
	case len(rest) == 0 && r.Method == http.MethodDelete:
		reply(w, 0, nil)
	case len(rest) == 1 && rest[0] == "url":
		if r.Method == http.MethodPost {
			reply(w, 0, nil)
		} else {
			reply(w, 0, "https://example.test/")
		}
	case len(rest) == 1 && rest[0] == "title":
		reply(w, 0, "fake title")
	case len(rest) == 1 && rest[0] == "window_handle":
		reply(w, 0, "w-1")
	case len(rest) == 1 && rest[0] == "window_handles":
		reply(w, 0, []string{"w-1", "w-2"})
	case len(rest) == 1 && rest[0] == "source":
		reply(w, 0, "<html><body>fake</body></html>")
	case len(rest) == 1 && (rest[0] == "back" || rest[0] == "forward" || rest[0] == "refresh"):
		reply(w, 0, nil)
	case len(rest) == 1 && rest[0] == "window":
		reply(w, 0, nil)
	case len(rest) == 1 && rest[0] == "alert_text":
		reply(w, 0, "fake alert")
	case len(rest) == 1 && (rest[0] == "accept_alert" || rest[0] == "dismiss_alert"):
		reply(w, 0, nil)
	case len(rest) == 1 && rest[0] == "cookie":
		switch r.Method {
		case http.MethodGet:
			d.mu.Lock()
			cookies := append([]json.RawMessage(nil), d.cookies...)
			d.mu.Unlock()
			reply(w, 0, cookies)
		case http.MethodPost:
			params := readParams(r)
			d.mu.Lock()
			d.cookies = append(d.cookies, params["cookie"])
			d.mu.Unlock()
			reply(w, 0, nil)
		default:
			d.mu.Lock()
			d.cookies = nil
			d.mu.Unlock()
			reply(w, 0, nil)
		}
	case len(rest) == 2 && rest[0] == "cookie":
		d.mu.Lock()
		var kept []json.RawMessage
		for _, c := range d.cookies {
			var cv struct {
				Name string `json:"name"`
			}
			json.Unmarshal(c, &cv)
			if cv.Name != rest[1] {
				kept = append(kept, c)
			}
		}
		d.cookies = kept
		d.mu.Unlock()
		reply(w, 0, nil)
	case len(rest) == 1 && rest[0] == "timeouts":
		reply(w, 0, nil)
	case len(rest) == 1 && rest[0] == "screenshot":
		d.mu.Lock()
		b := d.screenshot
		d.mu.Unlock()
		reply(w, 0, base64.StdEncoding.EncodeToString(b))
	case len(rest) == 1 && rest[0] == "print":
		d.mu.Lock()
		b := d.pdf
		d.mu.Unlock()
		reply(w, 0, base64.StdEncoding.EncodeToString(b))
	case len(rest) == 1 && rest[0] == "execute":
		params := readParams(r)
		var args []json.RawMessage
		json.Unmarshal(params["args"], &args)
		d.mu.Lock()
		exec := d.exec
		d.mu.Unlock()
		if exec == nil {
			replyErr(w, 17, "no script support configured")
			return
		}
		v, status := exec(stringParam(params, "script"), args)
		if status != 0 {
			replyErr(w, status, "script failed")
			return
		}
		reply(w, 0, v)
	case len(rest) == 1 && (rest[0] == "element" || rest[0] == "elements"):
		d.handleFind(w, r, d.top, rest[0] == "element")
	case len(rest) == 2 && rest[0] == "element" && rest[1] == "active":
		reply(w, 0, elementRef("input"))
	case len(rest) >= 3 && rest[0] == "element":
		d.handleElement(w, r, rest[1], rest[2:])
	default:
		replyErr(w, 9, "unknown command: "+r.Method+" "+path)
	}
}

func (d *fakeDriver) handleFind(w http.ResponseWriter, r *http.Request, scope []string, single bool) {
	params := readParams(r)
	sel := stringParam(params, "value")

	d.mu.Lock()
	ids := d.findIn(scope, sel)
	d.mu.Unlock()

	if single {
		if len(ids) == 0 {
			replyErr(w, 7, fmt.Sprintf("no element matching %q", sel))
			return
		}
		reply(w, 0, elementRef(ids[0]))
		return
	}
	reply(w, 0, elementRefs(ids))
}

func (d *fakeDriver) handleElement(w http.ResponseWriter, r *http.Request, eid string, rest []string) {
	d.mu.Lock()
	n := d.nodes[eid]
	d.mu.Unlock()
	if n == nil {
		replyErr(w, 10, "stale element reference: "+eid)
		return
	}

	switch rest[0] {
	case "element", "elements":
		d.handleFind(w, r, n.children, rest[0] == "element")
	case "text":
		d.mu.Lock()
		delay := d.textDelay[eid]
		status := d.textErr[eid]
		d.mu.Unlock()
		if delay > 0 {
			time.Sleep(delay)
		}
		if status != 0 {
			replyErr(w, status, "text failed for "+eid)
			return
		}
		reply(w, 0, n.text)
	case "name":
		reply(w, 0, n.tag)
	case "click":
		d.mu.Lock()
		delay := d.clickDelay
		d.mu.Unlock()
		if delay > 0 {
			time.Sleep(delay)
		}
		d.mu.Lock()
		d.clicks = append(d.clicks, eid)
		d.mu.Unlock()
		reply(w, 0, nil)
	case "value":
		params := readParams(r)
		var keys []string
		json.Unmarshal(params["value"], &keys)
		d.mu.Lock()
		d.keys[eid] += strings.Join(keys, "")
		d.mu.Unlock()
		reply(w, 0, nil)
	case "attribute", "property":
		if v, ok := n.attrs[rest[1]]; ok {
			reply(w, 0, v)
		} else {
			reply(w, 0, nil)
		}
	case "clear", "submit":
		reply(w, 0, nil)
	case "displayed":
		reply(w, 0, true)
	case "enabled":
		reply(w, 0, true)
	case "selected":
		reply(w, 0, false)
	case "css":
		reply(w, 0, "block")
	case "location":
		reply(w, 0, map[string]float64{"x": 10, "y": 20})
	case "size":
		reply(w, 0, map[string]float64{"width": 30, "height": 40})
	case "equals":
		a, b := eid, rest[1]
		d.mu.Lock()
		if c, ok := d.sameNode[a]; ok {
			a = c
		}
		if c, ok := d.sameNode[b]; ok {
			b = c
		}
		d.mu.Unlock()
		reply(w, 0, a == b)
	default:
		replyErr(w, 9, "unknown element command: "+rest[0])
	}
}

// clicked returns the ids clicked so far.
func (d *fakeDriver) clicked() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.clicks...)
}

// testSession creates a session against the fake driver.
func testSession(t *testing.T, d *fakeDriver) (*Session, context.Context) {
	t.Helper()

	ctx := context.Background()
	srv := New(d.srv.URL)
	s, err := srv.NewSession(ctx, Capabilities{"browserName": "fake"}, nil)
	if err != nil {
		t.Fatalf("could not create session: %v", err)
	}
	t.Cleanup(func() { s.Delete(context.Background()) })
	return s, ctx
}
