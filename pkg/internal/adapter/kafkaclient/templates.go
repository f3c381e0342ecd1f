package kafkaclient

import (
	"sort"
	"strconv"
	"strings"

	"github.com/joeydtaylor/flexlog/pkg/internal/types"
	"github.com/segmentio/kafka-go"
)

func renderTemplate(tmpl string, r *types.LogRecord) string {
	if !strings.Contains(tmpl, "{") {
		return tmpl
	}
	status := ""
	if r.ResponseStatusCode != 0 {
		status = strconv.Itoa(r.ResponseStatusCode)
	}
	return strings.NewReplacer(
		"{id}", r.ID,
		"{traceId}", r.TraceID,
		"{endpoint}", r.Endpoint,
		"{protocol}", r.Protocol,
		"{status}", status,
	).Replace(tmpl)
}

func renderKey(tmpl string, r *types.LogRecord) []byte {
	key := renderTemplate(strings.TrimSpace(tmpl), r)
	if key == "" {
		return nil
	}
	return []byte(key)
}

// renderHeaders emits headers sorted by name so partitions see a stable order.
func renderHeaders(tmpls map[string]string, r *types.LogRecord) []kafka.Header {
	if len(tmpls) == 0 {
		return nil
	}
	names := make([]string, 0, len(tmpls))
	for name := range tmpls {
		if strings.TrimSpace(name) != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	out := make([]kafka.Header, 0, len(names))
	for _, name := range names {
		out = append(out, kafka.Header{
			Key:   strings.TrimSpace(name),
			Value: []byte(renderTemplate(tmpls[name], r)),
		})
	}
	return out
}
