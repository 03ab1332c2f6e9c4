package profiles

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techlab/challenge-backend/internal/models"
)

func TestRegistry_Sudo(t *testing.T) {
	r := NewRegistry()
	scopes, ok := r.Scopes(&models.User{ID: "u1", Profile: models.ProfileSudo})
	require.True(t, ok)
	assert.Equal(t, []string{"*"}, scopes)
}

func TestRegistry_StandardIsDerivedFromUser(t *testing.T) {
	r := NewRegistry()
	scopes, ok := r.Scopes(&models.User{ID: "u1", Profile: models.ProfileStandard})
	require.True(t, ok)
	assert.Contains(t, scopes, "users:read")
	assert.Contains(t, scopes, "users:u1:update")
	assert.Contains(t, scopes, "users:u1:delete")
	assert.NotContains(t, scopes, "users:u2:update")
}

func TestRegistry_UnknownProfile(t *testing.T) {
	r := NewRegistry()
	scopes, ok := r.Scopes(&models.User{ID: "u1", Profile: "root"})
	assert.False(t, ok)
	assert.Nil(t, scopes)
}

func TestRegistry_ConcurrentReads(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, ok := r.Scopes(&models.User{ID: "u", Profile: models.ProfileStandard})
			assert.True(t, ok)
		}()
	}
	wg.Wait()
}
