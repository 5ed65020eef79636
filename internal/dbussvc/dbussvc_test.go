package dbussvc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeResolver struct {
	result []string
}

func (f fakeResolver) GetProxies(context.Context, string) []string { return f.result }

func TestQueryReturnsResolverResult(t *testing.T) {
	svc := &Service{resolver: fakeResolver{result: []string{"http://127.0.0.1:8080"}}}

	got, dbusErr := svc.Query("http://example.com")
	assert.Nil(t, dbusErr)
	assert.Equal(t, []string{"http://127.0.0.1:8080"}, got)
}

func TestQuerySubstitutesDirectOnEmptyResult(t *testing.T) {
	svc := &Service{resolver: fakeResolver{result: nil}}

	got, dbusErr := svc.Query("http://example.com")
	assert.Nil(t, dbusErr)
	assert.Equal(t, []string{"direct://"}, got)
}

func TestPropsHandlerGetAPIVersion(t *testing.T) {
	h := newPropsHandler()

	v, dbusErr := h.Get(ifaceName, "APIVersion")
	assert.Nil(t, dbusErr)
	assert.Equal(t, apiVersion, v.Value())
}

func TestPropsHandlerGetUnknownPropertyErrors(t *testing.T) {
	h := newPropsHandler()

	_, dbusErr := h.Get(ifaceName, "Nonexistent")
	assert.NotNil(t, dbusErr)
}

func TestPropsHandlerGetAll(t *testing.T) {
	h := newPropsHandler()

	all, dbusErr := h.GetAll(ifaceName)
	assert.Nil(t, dbusErr)
	assert.Equal(t, apiVersion, all["APIVersion"].Value())
}
