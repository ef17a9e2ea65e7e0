package metrics

import (
	"log/slog"
	"sort"
	"strings"
)

// Renderer converts one status snapshot into Prometheus exposition text.
// Params: logger for the unknown-key diagnostic.
// Returns: reusable render engine over the fixed schema.
type Renderer struct {
	logger *slog.Logger
}

// NewRenderer creates a render engine.
// Params: logger receives the unknown-key diagnostic; nil disables it.
// Returns: renderer instance.
func NewRenderer(logger *slog.Logger) *Renderer {
	return &Renderer{logger: logger}
}

// Render consumes one snapshot and emits the exposition text: the info metric
// first, then every schema entry whose key the snapshot reported, in schema
// order. The snapshot is owned by this call and is emptied as keys are
// claimed; the first malformed field aborts the whole render.
// Params: snapshot mutable status key/value map.
// Returns: exposition text or render failure naming the offending key.
func (r *Renderer) Render(snapshot map[string]string) (string, error) {
	var b strings.Builder

	labels := extractLabels(snapshot)
	appendInfoMetric(&b, labels, snapshot)

	for idx := range Schema {
		def := &Schema[idx]
		raw, present := snapshot[def.Key]
		if !present {
			continue
		}
		delete(snapshot, def.Key)

		if len(def.Bits) > 0 {
			if err := appendBitfieldMetrics(&b, def, raw, labels); err != nil {
				return "", err
			}
			continue
		}

		value, emit, err := Parse(raw, def.Kind, def.Sentinels)
		if err != nil {
			return "", &RenderError{Key: def.Key, Err: err}
		}
		if !emit {
			continue
		}
		AppendBlock(&b, def.Name, def.Help, def.Metric, labels, value)
	}

	for _, key := range structuralKeys {
		delete(snapshot, key)
	}
	r.reportUnknownKeys(snapshot)

	return b.String(), nil
}

// extractLabels pulls identifying keys out of the snapshot into the shared
// label set; missing keys are simply absent.
// Params: snapshot mutable status map.
// Returns: ordered label set.
func extractLabels(snapshot map[string]string) []Label {
	labels := make([]Label, 0, len(labelKeys))
	for _, pair := range labelKeys {
		value, present := snapshot[pair[0]]
		if !present {
			continue
		}
		delete(snapshot, pair[0])
		labels = append(labels, Label{Name: pair[1], Value: value})
	}
	return labels
}

// appendInfoMetric emits the info gauge carrying the shared labels plus any
// present descriptive fields, removing those fields from the snapshot.
// Params: b output builder; labels shared label set; snapshot mutable status map.
// Returns: none.
func appendInfoMetric(b *strings.Builder, labels []Label, snapshot map[string]string) {
	infoLabels := make([]Label, 0, len(labels)+len(infoKeys))
	infoLabels = append(infoLabels, labels...)
	for _, pair := range infoKeys {
		value, present := snapshot[pair[0]]
		if !present {
			continue
		}
		delete(snapshot, pair[0])
		infoLabels = append(infoLabels, Label{Name: pair[1], Value: value})
	}

	AppendBlock(b, "apcupsd_info", "Metadata for apcupsd.", Gauge, infoLabels, 1)
}

// appendBitfieldMetrics decodes one bitfield group and emits one boolean
// gauge per defined mask bit; a malformed field aborts the whole group.
// Params: b output builder; def bitfield schema entry; raw hex value; labels
// shared label set.
// Returns: render failure naming the group's key.
func appendBitfieldMetrics(b *strings.Builder, def *FieldDef, raw string, labels []Label) error {
	field, err := DecodeBitfield(raw, def.Width)
	if err != nil {
		return &RenderError{Key: def.Key, Err: err}
	}

	for _, bit := range def.Bits {
		value := 0.0
		if bitSet(field, bit.Mask) {
			value = 1.0
		}
		AppendBlock(b, bit.Name, bit.Help, Gauge, labels, value)
	}
	return nil
}

// reportUnknownKeys logs keys no schema entry claimed. Schema drift from new
// firmware surfaces here without failing the render.
// Params: snapshot leftover status map.
// Returns: none.
func (r *Renderer) reportUnknownKeys(snapshot map[string]string) {
	if len(snapshot) == 0 || r.logger == nil {
		return
	}

	keys := make([]string, 0, len(snapshot))
	for key := range snapshot {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	r.logger.Warn("unknown status keys", slog.String("keys", strings.Join(keys, ",")))
}
