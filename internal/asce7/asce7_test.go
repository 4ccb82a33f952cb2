package asce7

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var imperial = Units{}

func TestKzExposureC(t *testing.T) {
	// Table 26.10-1 lists 0.85 at 15 ft and 0.94 at 25 ft for Exposure C
	assert.InDelta(t, 0.85, Kz(ExposureC, 15, imperial), 0.01)
	assert.InDelta(t, 0.94, Kz(ExposureC, 25, imperial), 0.01)

	// below 15 ft the coefficient is held constant
	assert.Equal(t, Kz(ExposureC, 15, imperial), Kz(ExposureC, 6, imperial))

	// metric heights are converted before lookup
	assert.InDelta(t, Kz(ExposureC, 30, imperial), Kz(ExposureC, 30/FeetPerMeter, Units{Metric: true}), 1e-9)
}

func TestVelocityPressure(t *testing.T) {
	q := VelocityPressure(0.85, 1.0, 0.85, 1.0, 115, imperial)
	// 0.00256·0.85·0.85·115² = 24.46 psf
	assert.InDelta(t, 0.02446, q, 1e-4)

	qm := VelocityPressure(1.0, 1.0, 1.0, 1.0, 40, Units{Metric: true})
	assert.InDelta(t, 0.9808, qm, 1e-4)
}

func TestWallCoefficients(t *testing.T) {
	assert.Equal(t, -0.5, LeewardWallCp(0.5))
	assert.InDelta(t, -0.3, LeewardWallCp(2), 1e-12)
	assert.Equal(t, -0.2, LeewardWallCp(6))

	ww, lw := RoofCp(5)
	assert.Equal(t, -0.9, ww)
	assert.Equal(t, -0.5, lw)

	assert.Equal(t, 0.55, InternalPressureCoefficient(PartiallyEnclosed))
	assert.Equal(t, 0.0, InternalPressureCoefficient(Open))
	assert.Equal(t, 0.18, InternalPressureCoefficient(Enclosed))
}

func TestSiteCoefficients(t *testing.T) {
	tests := []struct {
		site   SiteClass
		ss, s1 float64
		fa, fv float64
	}{
		{SiteD, 0.25, 0.1, 1.6, 2.4},
		{SiteD, 1.0, 0.4, 1.1, 1.9},
		{SiteD, 0.625, 0.15, 1.3, 2.3}, // interpolated
		{SiteC, 2.0, 0.8, 1.2, 1.4},    // beyond the last break
		{SiteB, 0.1, 0.05, 0.9, 0.8},
	}

	for _, tt := range tests {
		t.Run(string(tt.site), func(t *testing.T) {
			assert.InDelta(t, tt.fa, Fa(tt.site, tt.ss), 1e-9)
			assert.InDelta(t, tt.fv, Fv(tt.site, tt.s1), 1e-9)
		})
	}
}

func TestSpectrumAndResponseCoefficient(t *testing.T) {
	sp := Spectrum(SiteD, 1.0, 0.4)
	assert.InDelta(t, 2.0/3.0*1.1, sp.SDS, 1e-9)
	assert.InDelta(t, 2.0/3.0*1.9*0.4, sp.SD1, 1e-9)

	// short period: Cs = SDS/(R/Ie)
	cs := ResponseCoefficient(sp, 0.4, 8, 1, 0.1, 8)
	assert.InDelta(t, sp.SDS/8, cs, 1e-9)

	// longer period: capped by SD1/(T·R/Ie)
	cs = ResponseCoefficient(sp, 0.4, 8, 1, 1.0, 8)
	assert.InDelta(t, sp.SD1/8, cs, 1e-9)

	// never below 0.044·SDS·Ie
	cs = ResponseCoefficient(sp, 0.4, 8, 1, 7.0, 8)
	assert.GreaterOrEqual(t, cs, 0.044*sp.SDS)

	// S1 ≥ 0.6 floor
	high := Spectrum(SiteD, 1.5, 0.75)
	cs = ResponseCoefficient(high, 0.75, 8, 1, 7.0, 8)
	assert.GreaterOrEqual(t, cs, 0.5*0.75/8)
}

func TestPeriodAndExponent(t *testing.T) {
	ta := ApproximatePeriod(FrameMoment, 30, imperial)
	// 0.028·30^0.8
	assert.InDelta(t, 0.4255, ta, 1e-3)

	tm := ApproximatePeriod(FrameMoment, 30/FeetPerMeter, Units{Metric: true})
	assert.InDelta(t, ta, tm, 1e-9)

	assert.Equal(t, 1.0, DistributionExponent(0.3))
	assert.Equal(t, 2.0, DistributionExponent(3.0))
	assert.InDelta(t, 1.5, DistributionExponent(1.5), 1e-12)
}

func TestSnowFactors(t *testing.T) {
	assert.InDelta(t, 0.7*30, FlatRoofSnowLoad(1, 1, 1, 30), 1e-12)

	assert.Equal(t, 1.0, SlopeFactor(20, 1.0, false))
	assert.InDelta(t, 0.5, SlopeFactor(50, 1.0, false), 1e-12)
	assert.Equal(t, 0.0, SlopeFactor(75, 1.2, false))
	assert.Less(t, SlopeFactor(20, 1.0, true), 1.0)

	assert.Equal(t, 15.0, MinimumSnowLoad(15, 1))
	assert.Equal(t, 20.0, MinimumSnowLoad(40, 1))

	assert.Equal(t, 30.0, SnowDensity(200))
	assert.InDelta(t, 17.9, SnowDensity(30), 1e-9)

	surcharge, width := ParapetDrift(100, 30)
	require.Greater(t, surcharge, 0.0)
	hd := 0.75 * DriftHeight(100, 30)
	assert.InDelta(t, 4*hd, width, 1e-12)
}

func TestLiveLoadReduction(t *testing.T) {
	l0, ok := OccupancyLoad(OccupancyOffice)
	require.True(t, ok)
	assert.Equal(t, 50.0, l0)

	// KLL·AT below 400 ft²: no reduction
	assert.Equal(t, 50.0, ReducedLiveLoad(50, KLLInteriorBeam, 150))

	// 2·800 = 1600 ft²: 50·(0.25 + 15/40) = 31.25
	assert.InDelta(t, 31.25, ReducedLiveLoad(50, KLLInteriorBeam, 800), 1e-9)

	// floor at 0.5·L0
	assert.Equal(t, 25.0, ReducedLiveLoad(50, KLLInteriorBeam, 1e6))

	assert.False(t, Reducible(OccupancyAssembly))
	assert.True(t, Reducible(OccupancyOffice))
}

func TestHeightClassification(t *testing.T) {
	assert.Equal(t, LowRise, ClassifyHeight(40, imperial))
	assert.Equal(t, MidRise, ClassifyHeight(100, imperial))
	assert.Equal(t, HighRise, ClassifyHeight(200, imperial))
	assert.Equal(t, MidRise, ClassifyHeight(20, Units{Metric: true}))
}

func TestCombinationTables(t *testing.T) {
	lrfd := Combinations(LRFD)
	require.NotEmpty(t, lrfd)
	for _, c := range lrfd {
		assert.Equal(t, LRFD, c.Method, c.ID)
		assert.NotEmpty(t, c.Factors, c.ID)
	}

	asd := Combinations(ASD)
	require.NotEmpty(t, asd)
	for _, c := range asd {
		assert.Equal(t, ASD, c.Method, c.ID)
	}

	var lrfd4 LoadCombination
	for _, c := range lrfd {
		if c.ID == "LRFD-4" {
			lrfd4 = c
		}
	}
	assert.Equal(t, 1.2, lrfd4.Factor(Dead))
	assert.Equal(t, 1.0, lrfd4.Factor(Wind))
	assert.Equal(t, 0.0, lrfd4.Factor(Seismic))

	// every roof live row has a snow twin and vice versa
	for _, table := range [][]LoadCombination{lrfd, asd} {
		var snow, roof int
		for _, c := range table {
			if c.Factor(Snow) > 0 && c.Factor(Seismic) == 0 {
				snow++
			}
			if c.Factor(RoofLive) > 0 {
				roof++
				assert.Zero(t, c.Factor(Snow), c.ID)
			}
		}
		assert.Equal(t, snow, roof)
	}
	assert.Equal(t, "Lr", RoofLive.Symbol())
}
