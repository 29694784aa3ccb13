package main

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"lists-ms/infrastructure/config"
	"lists-ms/infrastructure/persistence/schema"
)

type fakeProvisioner struct {
	created  bool
	deleted  bool
	wait     time.Duration
	statuses []schema.TableStatus
}

func (f *fakeProvisioner) Create(_ context.Context, wait time.Duration) error {
	f.created = true
	f.wait = wait
	return nil
}

func (f *fakeProvisioner) Delete(context.Context) error {
	f.deleted = true
	return nil
}

func (f *fakeProvisioner) Describe(context.Context) ([]schema.TableStatus, error) {
	return f.statuses, nil
}

func run(t *testing.T, fake *fakeProvisioner, args ...string) (string, error) {
	t.Helper()
	t.Setenv("STORE_DRIVER", config.StoreDynamoDB)

	cmd := NewRootCommand(func(context.Context, *config.Config, *zap.Logger) (tableProvisioner, error) {
		return fake, nil
	})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func testStatuses() []schema.TableStatus {
	return []schema.TableStatus{
		{Name: "Lists", Status: "ACTIVE", Items: 3, Indexes: []string{"indexUser"}},
		{Name: "Tasks", Status: "MISSING", Indexes: []string{}},
	}
}

func TestCreate(t *testing.T) {
	fake := &fakeProvisioner{statuses: testStatuses()}

	out, err := run(t, fake, "create", "--wait", "0")

	require.NoError(t, err)
	assert.True(t, fake.created)
	assert.Zero(t, fake.wait)
	assert.Contains(t, out, "Lists")
	assert.Contains(t, out, "MISSING")
}

func TestDescribe_JSON(t *testing.T) {
	fake := &fakeProvisioner{statuses: testStatuses()}

	out, err := run(t, fake, "describe", "--format", "json")

	require.NoError(t, err)
	var got []schema.TableStatus
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, testStatuses(), got)
}

func TestDescribe_YAML(t *testing.T) {
	fake := &fakeProvisioner{statuses: testStatuses()}

	out, err := run(t, fake, "describe", "--format", "yaml")

	require.NoError(t, err)
	var got []schema.TableStatus
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))
	assert.Equal(t, testStatuses(), got)
}

func TestInvalidFormat(t *testing.T) {
	_, err := run(t, &fakeProvisioner{}, "describe", "--format", "xml")
	assert.Error(t, err)
}

func TestDelete_RequiresConfirmation(t *testing.T) {
	fake := &fakeProvisioner{}

	_, err := run(t, fake, "delete")
	assert.Error(t, err)
	assert.False(t, fake.deleted)

	_, err = run(t, fake, "delete", "--yes")
	require.NoError(t, err)
	assert.True(t, fake.deleted)
}

func TestToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "local-secret")

	out, err := run(t, &fakeProvisioner{}, "token", "--user", "u1", "--format", "json")

	require.NoError(t, err)
	var got map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "u1", got["user"])
	assert.NotEmpty(t, got["token"])
}
