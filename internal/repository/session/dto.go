package session

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/kailas-cloud/stylesearch/internal/domain/search/result"
	domsession "github.com/kailas-cloud/stylesearch/internal/domain/session"
)

// stateRow is the stored representation of a session state.
type stateRow struct {
	State     domsession.State `json:"state"`
	UpdatedAt int64            `json:"updated_at"`
}

func stateToJSON(s domsession.State, now time.Time) ([]byte, error) {
	data, err := json.Marshal(stateRow{State: s, UpdatedAt: now.UnixMilli()})
	if err != nil {
		return nil, fmt.Errorf("marshal session %s: %w", s.ID, err)
	}
	return data, nil
}

func stateFromJSON(data []byte) (domsession.State, error) {
	var row stateRow
	if err := json.Unmarshal(data, &row); err != nil {
		return domsession.State{}, fmt.Errorf("unmarshal session: %w", err)
	}
	if row.State.Results == nil {
		row.State.Results = []result.DisplayItem{}
	}
	return row.State, nil
}
