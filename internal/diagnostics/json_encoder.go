package diagnostics

import "encoding/json"

// ToJSON renders a Report as deterministic JSON (sorted map keys via
// encoding/json's default struct-field order), matching the teacher's
// errors.Report.ToJSON behavior.
func (r *Report) ToJSON(compact bool) (string, error) {
	var data []byte
	var err error
	if compact {
		data, err = json.Marshal(r)
	} else {
		data, err = json.MarshalIndent(r, "", "  ")
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// EncodeAll renders every Report in a Log as a single JSON array,
// suitable for machine consumption by an editor integration or CI
// annotation step.
func (l *Log) EncodeAll() (string, error) {
	data, err := json.MarshalIndent(l.Reports(), "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
</content>
