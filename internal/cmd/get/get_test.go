package get_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/clambin/tstat-exporter/internal/cmd/get"
	"github.com/clambin/tstat-exporter/internal/cmd/get/mocks"
	"github.com/clambin/tstat-exporter/pkg/tstat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
	"testing"
)

func TestShow(t *testing.T) {
	ctx := context.Background()
	g := mocks.NewGetter(t)
	g.EXPECT().Keys().Return([]string{"t_cool", "temp", "tmode", "today_heat_runtime"}).Once()
	g.EXPECT().Get(ctx, "t_cool", false).Return(nil, fmt.Errorf("t_cool: %w", tstat.ErrPathNotFound)).Twice()
	g.EXPECT().Get(ctx, "temp", false).Return(json.Number("70.5"), nil).Twice()
	g.EXPECT().Get(ctx, "tmode", false).Return("Heat", nil).Twice()
	g.EXPECT().Get(ctx, "today_heat_runtime", false).
		Return(map[string]any{"hour": json.Number("1"), "minute": json.Number("25")}, nil).
		Twice()

	var out bytes.Buffer
	require.NoError(t, get.Show(ctx, g, nil, false, yaml.NewEncoder(&out)))
	assert.Equal(t, `temp: 70.5
tmode: Heat
today_heat_runtime:
    hour: 1
    minute: 25
`, out.String())

	out.Reset()
	require.NoError(t, get.Show(ctx, g, []string{"t_cool", "temp", "tmode", "today_heat_runtime"}, false, json.NewEncoder(&out)))
	assert.Equal(t, `{"temp":70.5,"tmode":"Heat","today_heat_runtime":{"hour":1,"minute":25}}
`, out.String())
}

func TestShow_Raw(t *testing.T) {
	ctx := context.Background()
	g := mocks.NewGetter(t)
	g.EXPECT().Get(ctx, "tmode", true).Return(json.Number("1"), nil).Once()

	var out bytes.Buffer
	require.NoError(t, get.Show(ctx, g, []string{"tmode"}, true, json.NewEncoder(&out)))
	assert.Equal(t, "{\"tmode\":1}\n", out.String())
}

func TestShow_Failure(t *testing.T) {
	g := mocks.NewGetter(t)
	g.EXPECT().Get(mock.Anything, "temp", false).Return(nil, &tstat.TransportError{Endpoint: "/tstat", Err: errors.New("connection refused")}).Once()

	var out bytes.Buffer
	err := get.Show(context.Background(), g, []string{"temp"}, false, json.NewEncoder(&out))
	require.Error(t, err)
	var transportErr *tstat.TransportError
	assert.ErrorAs(t, err, &transportErr)
	assert.Empty(t, out.String())
}

func TestShowKeys(t *testing.T) {
	g := mocks.NewGetter(t)
	g.EXPECT().Keys().Return([]string{"fmode", "temp", "tmode"}).Once()

	var out bytes.Buffer
	require.NoError(t, get.ShowKeys(g, &out))
	assert.Equal(t, "fmode\ntemp\ntmode\n", out.String())
}
