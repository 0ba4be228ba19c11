// Copyright 2024-2025 NetCracker Technology Corporation
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cfg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults_EmptyPathReturnsNil(t *testing.T) {
	d, err := LoadDefaults("")
	require.NoError(t, err)
	assert.Nil(t, d)
}

func TestLoadDefaults_MissingFileErrors(t *testing.T) {
	_, err := LoadDefaults(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	assert.Error(t, err)
}

func TestLoadDefaults_ParsesKnownFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "defaults.yaml")
	writeFile(t, path, "configmap-labels: kind=cluster,team=platform\nlock-timeout: 30000\n")

	d, err := LoadDefaults(path)
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, "kind=cluster,team=platform", d.ConfigMapLabels)
	assert.Equal(t, 30000, d.LockTimeoutMs)
	assert.Equal(t, 0, d.FullReconciliationIntervalMs)
}

func TestDefaults_Apply_SeedsOnlyZeroFields(t *testing.T) {
	d := &Defaults{ConfigMapLabels: "kind=cluster", LockTimeoutMs: 5000}
	c := Cfg{LockTimeoutMs: 60000}

	d.Apply(&c)

	assert.Equal(t, "kind=cluster", c.ConfigMapLabels)
	assert.Equal(t, 60000, c.LockTimeoutMs, "a field the caller already set must not be overwritten by the defaults file")
}

func TestDefaults_Apply_NilReceiverIsNoOp(t *testing.T) {
	var d *Defaults
	c := Cfg{ConfigMapLabels: "kind=cluster"}

	d.Apply(&c)

	assert.Equal(t, "kind=cluster", c.ConfigMapLabels)
}

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
}
