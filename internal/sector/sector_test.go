package sector

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"MarketMonitor/internal/model"
)

type stubSource struct {
	bars map[string]model.DailyBar
	err  error
	seen []string
}

func (s *stubSource) DailyBar(_ context.Context, index string) (model.DailyBar, error) {
	s.seen = append(s.seen, index)
	if s.err != nil {
		return model.DailyBar{}, s.err
	}
	return s.bars[index], nil
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "TCS", Normalize("tcs.ns"))
	assert.Equal(t, "SBIN", Normalize(" SBIN.BO "))
	assert.Equal(t, "M&M", Normalize("m&m"))
	assert.Equal(t, "^NSEI", Normalize("^NSEI"))
}

func TestIndexFor(t *testing.T) {
	r := NewResolver(&stubSource{}, "", map[string]string{"adanient": "^CNXMETAL"}, nil)
	assert.Equal(t, "^CNXIT", r.IndexFor("INFY.NS"))
	assert.Equal(t, "^CNXFIN", r.IndexFor("cdsl"))
	assert.Equal(t, "^CNXMETAL", r.IndexFor("ADANIENT"), "override")
	assert.Equal(t, BroadMarket, r.IndexFor("UNKNOWNCO"), "unknown symbols use the broad market")
}

func TestResolve(t *testing.T) {
	src := &stubSource{bars: map[string]model.DailyBar{"^CNXIT": {Open: 100, Close: 100.53}}}
	r := NewResolver(src, "", nil, nil)

	snap := r.Resolve(context.Background(), "TCS")
	assert.Equal(t, "^CNXIT", snap.Identifier)
	assert.Equal(t, "IT", snap.Name)
	assert.InDelta(t, 0.53, snap.ChangePct, 1e-9)
}

func TestResolve_UnknownSymbolUsesFallback(t *testing.T) {
	src := &stubSource{bars: map[string]model.DailyBar{"^NSEI": {Open: 200, Close: 199}}}
	r := NewResolver(src, "", nil, nil)

	snap := r.Resolve(context.Background(), "NOTLISTED")
	assert.Equal(t, []string{"^NSEI"}, src.seen)
	assert.Equal(t, "NIFTY 50", snap.Name)
	assert.InDelta(t, -0.5, snap.ChangePct, 1e-9)
}

func TestResolve_FailureYieldsDefault(t *testing.T) {
	r := NewResolver(&stubSource{err: errors.New("timeout")}, "", nil, nil)
	assert.Equal(t, model.DefaultSector, r.Resolve(context.Background(), "TCS"))

	empty := NewResolver(&stubSource{bars: map[string]model.DailyBar{}}, "", nil, nil)
	assert.Equal(t, model.DefaultSector, empty.Resolve(context.Background(), "TCS"))
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "PHARMA", DisplayName("^CNXPHARMA"))
	assert.Equal(t, "CNXREALTY", DisplayName("^CNXREALTY"))
}
