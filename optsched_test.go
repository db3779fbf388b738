/*
 * Copyright 2026 CloudWeGo Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package optsched

import (
	"bytes"
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOptimize(t *testing.T) {
	unit, err := Load("testdata/straight.yaml")
	require.NoError(t, err)
	require.Equal(t, "straight", unit.Name())
	require.Equal(t, "hot", unit.Hotness())

	/* a clean compilation at the described hotness */
	rep, err := Optimize(context.Background(), unit, WithParallelism(1))
	require.NoError(t, err)
	require.Equal(t, "straight", rep.Unit)
	require.Equal(t, "hot", rep.Hotness)
	require.Equal(t, 1, rep.Attempts)
	require.NotEmpty(t, rep.Passes)
	require.Contains(t, rep.Graph, "(return")

	require.Positive(t, rep.Cost)
}

func TestOptimize_SetHotness(t *testing.T) {
	unit, err := Load("testdata/sum.yaml")
	require.NoError(t, err)
	require.NoError(t, unit.SetHotness("noOpt"))
	require.Equal(t, "noOpt", unit.Hotness())

	/* nothing runs without optimization */
	rep, err := Optimize(context.Background(), unit)
	require.NoError(t, err)
	require.Empty(t, rep.Passes)
	require.Equal(t, 0, rep.Cost)
	require.Equal(t, -1, rep.Loops)

	/* unknown levels are rejected */
	err = unit.SetHotness("tepid")
	require.Equal(t, HotnessError{Name: "tepid"}, err)
}

func TestOptimize_TooComplex(t *testing.T) {
	unit, err := Load("testdata/sum.yaml")
	require.NoError(t, err)
	require.NoError(t, unit.SetHotness("hot"))

	/* the loop analyses refuse the unit, it is compiled cold instead */
	rep, err := Optimize(context.Background(), unit, WithThresholds(2, 65, 125))
	require.NoError(t, err)
	require.Equal(t, 2, rep.Attempts)
	require.Equal(t, "cold", rep.Hotness)

	/* unless huge methods are forced through */
	rep, err = Optimize(context.Background(), unit, WithThresholds(2, 65, 125), WithProcessHugeMethods(true))
	require.NoError(t, err)
	require.Equal(t, 1, rep.Attempts)
	require.Equal(t, "hot", rep.Hotness)
}

func TestOptimize_Interrupted(t *testing.T) {
	unit, err := Load("testdata/straight.yaml")
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	/* the failure is reported with its kind */
	_, err = Optimize(ctx, unit)
	var fe FailureError
	require.True(t, errors.As(err, &fe), "%v", err)
	require.Equal(t, "CompilationInterrupted", fe.Kind)
	require.Equal(t, "straight", fe.Unit)
	require.NotEmpty(t, fe.Pass)
}

func TestOptimizeAll(t *testing.T) {
	var units []*Unit
	for _, v := range []string{"testdata/sum.yaml", "testdata/straight.yaml", "testdata/sum.yaml"} {
		unit, err := Load(v)
		require.NoError(t, err)
		units = append(units, unit)
	}

	/* every unit is reported in order */
	reps, err := OptimizeAll(context.Background(), units, WithParallelism(2), WithSmallOptimizer(true))
	require.NoError(t, err)
	require.Len(t, reps, 3)
	require.Equal(t, []string{"sum", "straight", "sum"}, []string{reps[0].Unit, reps[1].Unit, reps[2].Unit})
	for _, v := range reps {
		require.Equal(t, 1, v.Attempts)
	}
}

func TestLoad_Invalid(t *testing.T) {
	_, err := Load("testdata/missing.yaml")
	var de DescriptionError
	require.True(t, errors.As(err, &de))
	require.Equal(t, "testdata/missing.yaml", de.Path)

	/* parse errors carry the cause */
	_, err = Parse([]byte("name: x\nblocks: [{trees: [(jump)]}]\n"))
	require.ErrorAs(t, err, &de)
	require.Contains(t, err.Error(), "unknown opcode")
}

func TestDumpStrategy(t *testing.T) {
	buf := new(bytes.Buffer)
	require.NoError(t, DumpStrategy(buf, "warm", false))
	want, err := os.ReadFile("internal/opt/testdata/full_warm.golden")
	require.NoError(t, err)
	require.Equal(t, string(want), buf.String())

	/* unknown hotness */
	require.Equal(t, HotnessError{Name: "lukewarm"}, DumpStrategy(buf, "lukewarm", true))
}

func TestOptions(t *testing.T) {
	o := makeOptions([]Option{
		WithOptIndexRange(3, 9),
		WithDisabledOpts("localCSE"),
		WithTraceOpts("7"),
		WithUseDefLimit(100),
		WithDeterministicOrientedCompilation(true),
	})
	require.Equal(t, 3, o.FirstOptIndex)
	require.Equal(t, 9, o.LastOptIndex)
	require.Contains(t, o.DisabledOpts, "localCSE")
	require.Contains(t, o.TraceOpts, "7")
	require.Equal(t, 100, o.UseDefLimit)
	require.True(t, o.DeterministicOrientedCompilation)

	/* bad values are programming errors */
	require.Panics(t, func() { WithOptIndexRange(5, 1) })
	require.Panics(t, func() { WithThresholds(0, 1, 1) })
	require.Panics(t, func() { WithParallelism(0) })
	require.Panics(t, func() { WithUseDefLimit(-1) })
}

func TestSetDefaults(t *testing.T) {
	old := SetProcessHugeMethods(true)
	require.True(t, makeOptions(nil).ProcessHugeMethods)
	require.True(t, SetProcessHugeMethods(old))

	old = SetSmallOptimizer(true)
	require.True(t, makeOptions(nil).SmallOptimizer)
	require.True(t, SetSmallOptimizer(old))
}
