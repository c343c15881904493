// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpucore_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/hellotriangle/gpucore"
	"github.com/gogpu/hellotriangle/gpucore/gputest"
)

func register(t *testing.T, name string, f gpucore.Factory) {
	t.Helper()
	gpucore.Register(name, f)
	t.Cleanup(func() { gpucore.Unregister(name) })
}

func fakeFactory(got *gpucore.InstanceOptions) gpucore.Factory {
	return func(opts gpucore.InstanceOptions) (gpucore.Instance, error) {
		if got != nil {
			*got = opts
		}
		return gputest.NewInstance(), nil
	}
}

func TestRegisterAndOpen(t *testing.T) {
	var got gpucore.InstanceOptions
	register(t, "fake", fakeFactory(&got))

	opts := gpucore.InstanceOptions{Backends: gputypes.BackendsVulkan, Debug: true}
	inst, err := gpucore.Open("fake", opts)
	if err != nil {
		t.Fatalf("Open() = %v", err)
	}
	if _, ok := inst.(*gputest.Instance); !ok {
		t.Errorf("Open() = %T, want *gputest.Instance", inst)
	}
	if got != opts {
		t.Errorf("factory options = %+v, want %+v", got, opts)
	}
}

func TestOpenUnknown(t *testing.T) {
	_, err := gpucore.Open("no-such-impl", gpucore.InstanceOptions{})
	if !errors.Is(err, gpucore.ErrImplNotAvailable) {
		t.Errorf("Open() = %v, want ErrImplNotAvailable", err)
	}
}

func TestAvailableSorted(t *testing.T) {
	register(t, "zz-fake", fakeFactory(nil))
	register(t, "aa-fake", fakeFactory(nil))

	names := gpucore.Available()
	var mine []string
	for _, n := range names {
		if n == "aa-fake" || n == "zz-fake" {
			mine = append(mine, n)
		}
	}
	if !reflect.DeepEqual(mine, []string{"aa-fake", "zz-fake"}) {
		t.Errorf("Available() = %v, want aa-fake before zz-fake", names)
	}
}

func TestOpenDefaultPrefersPriority(t *testing.T) {
	var usedWGPU bool
	register(t, "aa-fake", fakeFactory(nil))
	register(t, gpucore.ImplWGPU, func(gpucore.InstanceOptions) (gpucore.Instance, error) {
		usedWGPU = true
		return gputest.NewInstance(), nil
	})

	if _, err := gpucore.OpenDefault(gpucore.InstanceOptions{}); err != nil {
		t.Fatalf("OpenDefault() = %v", err)
	}
	if !usedWGPU {
		t.Error("OpenDefault() skipped the priority implementation")
	}
}

func TestOpenDefaultFallsThrough(t *testing.T) {
	boom := errors.New("no driver")
	register(t, gpucore.ImplWGPU, func(gpucore.InstanceOptions) (gpucore.Instance, error) {
		return nil, boom
	})

	if _, err := gpucore.OpenDefault(gpucore.InstanceOptions{}); !errors.Is(err, boom) {
		t.Fatalf("OpenDefault() with one failing impl = %v, want %v", err, boom)
	}

	register(t, "zz-fake", fakeFactory(nil))
	inst, err := gpucore.OpenDefault(gpucore.InstanceOptions{})
	if err != nil {
		t.Fatalf("OpenDefault() = %v", err)
	}
	if _, ok := inst.(*gputest.Instance); !ok {
		t.Errorf("OpenDefault() = %T, want the fallback implementation", inst)
	}
}
