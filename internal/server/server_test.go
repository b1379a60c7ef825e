package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/gardar/textalign/pkg/textalign"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	s := New(textalign.DefaultConfig(), log.New(io.Discard))
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func post(t *testing.T, url, body string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, data
}

const dominusRequest = `{
  "transcript": "Dominus",
  "glyphs": [
    {"char": "d", "ul": [0, 0], "lr": [10, 20]},
    {"char": "n", "ul": [10, 0], "lr": [20, 20]},
    {"char": "s", "ul": [22, 0], "lr": [30, 20]}
  ],
  "layout": {"peak_locations": [100, 150]}
}`

func TestAlign(t *testing.T) {
	ts := newTestServer(t)
	resp, body := post(t, ts.URL+"/v1/align", dominusRequest)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.StatusCode, body)
	}

	var got struct {
		MedianLineSpacing float64 `json:"median_line_spacing"`
		SylBoxes          []struct {
			Syl string `json:"syl"`
			UL  [2]int `json:"ul"`
			LR  [2]int `json:"lr"`
		} `json:"syl_boxes"`
		PeakLocations []int `json:"peak_locations"`
	}
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	var syls []string
	for _, b := range got.SylBoxes {
		syls = append(syls, b.Syl)
	}
	if want := []string{"do", "mi", "nus"}; !reflect.DeepEqual(syls, want) {
		t.Errorf("syllables = %v, want %v", syls, want)
	}
	if got.SylBoxes[2].UL != [2]int{22, 0} || got.SylBoxes[2].LR != [2]int{30, 20} {
		t.Errorf("nus box = %v-%v", got.SylBoxes[2].UL, got.SylBoxes[2].LR)
	}
	if got.MedianLineSpacing != 50 {
		t.Errorf("median_line_spacing = %v, want 50", got.MedianLineSpacing)
	}
}

func TestAlignErrors(t *testing.T) {
	ts := newTestServer(t)
	tests := []struct {
		name string
		body string
		want int
	}{
		{"malformed json", `{"transcript": `, http.StatusBadRequest},
		{"unknown field", `{"transcript": "a", "bogus": 1}`, http.StatusBadRequest},
		{"bad glyph", `{"transcript": "a", "glyphs": [{"char": "ab"}]}`, http.StatusBadRequest},
		{"bad scoring", `{"transcript": "a", "scoring": {"costs": [1, 2, 3]}}`, http.StatusBadRequest},
		{"incomplete scoring", `{"transcript": "a", "scoring": {"match": 1}}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := post(t, ts.URL+"/v1/align", tt.body)
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d (body %s)", resp.StatusCode, tt.want, body)
			}
			var e errorResponse
			if err := json.Unmarshal(body, &e); err != nil || e.Error == "" {
				t.Errorf("error body = %s", body)
			}
		})
	}
}

func TestAlignWithoutAbbreviations(t *testing.T) {
	ts := newTestServer(t)
	body := strings.Replace(dominusRequest, `"transcript"`, `"abbreviations": false, "transcript"`, 1)
	resp, data := post(t, ts.URL+"/v1/align", body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.StatusCode, data)
	}
	var res textalign.Result
	if err := json.Unmarshal(data, &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(res.SyllableBoxes) == 0 {
		t.Error("no syllable boxes")
	}
}

func TestSyllabify(t *testing.T) {
	ts := newTestServer(t)
	resp, body := post(t, ts.URL+"/v1/syllabify", `{"text": "Gloria patri"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.StatusCode, body)
	}
	var got syllabifyResponse
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if want := []string{"glo", "ri", "a", "pa", "tri"}; !reflect.DeepEqual(got.Syllables, want) {
		t.Errorf("syllables = %v, want %v", got.Syllables, want)
	}
}

func TestHealthAndRequestID(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
	if _, err := uuid.Parse(resp.Header.Get(requestIDHeader)); err != nil {
		t.Errorf("X-Request-Id %q is not a uuid", resp.Header.Get(requestIDHeader))
	}

	id := uuid.NewString()
	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/healthz", nil)
	req.Header.Set(requestIDHeader, id)
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	resp.Body.Close()
	if got := resp.Header.Get(requestIDHeader); got != id {
		t.Errorf("X-Request-Id = %q, want %q", got, id)
	}
}

func TestUnknownRoute(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/v1/align")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", resp.StatusCode)
	}
}
