package tracker

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/redeye-tracker/internal/detection"
	"github.com/ironsheep/redeye-tracker/internal/imaging"
)

// testConfig is a 200x200 frame reduced by 5 to a 40x40 grid.
func testConfig() Config {
	cfg := DefaultConfig()
	cfg.FrameWidth = 200
	cfg.FrameHeight = 200
	return cfg
}

// squaresFrame draws 50px red squares on a gray background with their
// top-left corners at the given frame coordinates.
func squaresFrame(w, h int, corners ...[2]int) *imaging.Frame {
	f := imaging.NewFrame(w, h)
	f.Fill(0, 0, w, h, 0x30, 0x30, 0x30)
	for _, c := range corners {
		f.Fill(c[0], c[1], c[0]+50, c[1]+50, 0xE0, 0x10, 0x10)
	}
	return f
}

var fourSquares = [][2]int{{25, 25}, {125, 25}, {25, 125}, {125, 125}}

func TestNewPipeline_InvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Scale = 3

	_, err := NewPipeline(cfg)
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	require.Equal(t, "frame_width", cfgErr.Field)
}

func TestPipeline_Process(t *testing.T) {
	tests := []struct {
		name           string
		frame          *imaging.Frame
		wantFound      bool
		wantIndicator  detection.Indicator
		wantCandidates int
	}{
		{
			name:          "all background",
			frame:         squaresFrame(200, 200),
			wantIndicator: detection.NoTarget,
		},
		{
			name:           "two squares are not a target",
			frame:          squaresFrame(200, 200, fourSquares[:2]...),
			wantIndicator:  detection.NoTarget,
			wantCandidates: 2,
		},
		{
			// Grid squares span 10 cells: extent 9, centers at 9 and 29,
			// mean 19, spread trunc(sqrt(200)) = 14.
			name:           "four squares",
			frame:          squaresFrame(200, 200, fourSquares...),
			wantFound:      true,
			wantIndicator:  detection.Indicator{X: 95, Y: 95, Distance: 70},
			wantCandidates: 4,
		},
		{
			// mean (15,15); spreads 8, 15, 15 average to 12
			name:           "three squares",
			frame:          squaresFrame(200, 200, fourSquares[:3]...),
			wantFound:      true,
			wantIndicator:  detection.Indicator{X: 75, Y: 75, Distance: 60},
			wantCandidates: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewPipeline(testConfig())
			require.NoError(t, err)

			res, err := p.Process(tt.frame)
			require.NoError(t, err)
			require.Equal(t, tt.wantFound, res.Found)
			require.Equal(t, tt.wantIndicator, res.Indicator)
			require.Len(t, res.Candidates, tt.wantCandidates)
			require.Equal(t, tt.wantCandidates, res.Diagnostics.Candidates)
		})
	}
}

func TestPipeline_Idempotent(t *testing.T) {
	p, err := NewPipeline(testConfig())
	require.NoError(t, err)

	frame := squaresFrame(200, 200, [2]int{10, 10}, [2]int{120, 15}, [2]int{60, 130}, [2]int{140, 140})

	first, err := p.Process(frame)
	require.NoError(t, err)

	// A different frame in between must not leak into the next result.
	_, err = p.Process(squaresFrame(200, 200, fourSquares...))
	require.NoError(t, err)

	second, err := p.Process(frame)
	require.NoError(t, err)

	if diff := cmp.Diff(first.Indicator, second.Indicator); diff != "" {
		t.Errorf("Indicator differs on reprocessing (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(first.Candidates, second.Candidates); diff != "" {
		t.Errorf("Candidates differ on reprocessing (-first +second):\n%s", diff)
	}
	require.Equal(t, first.Diagnostics.Groups, second.Diagnostics.Groups)
}

func TestPipeline_FrameSize(t *testing.T) {
	p, err := NewPipeline(testConfig())
	require.NoError(t, err)

	_, err = p.Process(imaging.NewFrame(100, 200))
	require.ErrorIs(t, err, ErrFrameSize)

	short := &imaging.Frame{Width: 200, Height: 200, Pix: make([]byte, 10)}
	_, err = p.Process(short)
	require.ErrorIs(t, err, ErrFrameSize)
}

func TestPipeline_CapacityError(t *testing.T) {
	cfg := testConfig()
	cfg.QueueLimit = 1

	p, err := NewPipeline(cfg)
	require.NoError(t, err)

	_, err = p.Process(squaresFrame(200, 200, fourSquares...))
	var capErr *detection.CapacityError
	require.ErrorAs(t, err, &capErr)
	require.Equal(t, 1, capErr.Limit)

	// An empty frame needs no queue and still processes.
	res, err := p.Process(squaresFrame(200, 200))
	require.NoError(t, err)
	require.False(t, res.Found)
}

func TestPipeline_Threshold(t *testing.T) {
	p, err := NewPipeline(testConfig())
	require.NoError(t, err)
	require.Equal(t, 50, p.Threshold())

	require.Error(t, p.SetThreshold(101))
	require.Equal(t, 50, p.Threshold())

	// 0xE0 / (0xE0+0x10+0x10) is 87%, so the squares vanish above that.
	require.NoError(t, p.SetThreshold(88))
	res, err := p.Process(squaresFrame(200, 200, fourSquares...))
	require.NoError(t, err)
	require.False(t, res.Found)
	require.Zero(t, res.Diagnostics.Foreground)
	require.Equal(t, 88, res.Diagnostics.Threshold)
}

func TestPipeline_RankByMean(t *testing.T) {
	p, err := NewPipeline(testConfig())
	require.NoError(t, err)
	p.SetRankMode(detection.RankByMean)

	res, err := p.Process(squaresFrame(200, 200, fourSquares...))
	require.NoError(t, err)
	require.Equal(t, detection.RankByMean, res.Diagnostics.RankMode)
	require.Equal(t, detection.Indicator{X: 95, Y: 95, Distance: 70}, res.Indicator)
}

func TestPipeline_Mask(t *testing.T) {
	p, err := NewPipeline(testConfig())
	require.NoError(t, err)

	res, err := p.Process(squaresFrame(200, 200, fourSquares[:1]...))
	require.NoError(t, err)

	mask := p.Mask()
	require.Equal(t, 40, mask.Bounds().Dx())
	require.Equal(t, 40, mask.Bounds().Dy())

	white := 0
	for _, v := range mask.Pix {
		if v == 0xFF {
			white++
		}
	}
	require.Equal(t, res.Diagnostics.Foreground, white)
	require.Equal(t, 100, white)
}

func TestPipeline_Rejections(t *testing.T) {
	p, err := NewPipeline(testConfig())
	require.NoError(t, err)

	// A 5px wide bar shrinks to a single grid column.
	f := squaresFrame(200, 200)
	f.Fill(100, 20, 105, 180, 0xFF, 0, 0)

	res, err := p.Process(f)
	require.NoError(t, err)
	require.Len(t, res.Diagnostics.Rejections, 1)
	require.Equal(t, detection.RejectTooSlim, res.Diagnostics.Rejections[0].Reason)
}
