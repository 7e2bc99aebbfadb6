package moderation

import (
	"context"
	"testing"

	"github.com/colefield/parley/internal/domain"
	"github.com/colefield/parley/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_Move(t *testing.T) {
	ctx := context.Background()

	t.Run("moves a standard topic with its natural scores", func(t *testing.T) {
		env := newTestEnv(t, &models.Topic{
			TID:          "5",
			CID:          "1",
			UID:          "owner",
			Timestamp:    900,
			LastPostTime: 1000,
			PostCount:    3,
			Upvotes:      4,
			Downvotes:    1,
			Tags:         []string{"go"},
		})
		env.sets.Add(ctx, keyTids("1"), "5", 1000)
		env.sets.Add(ctx, keyTidsCreate("1"), "5", 900)
		env.sets.Add(ctx, keyTidsPosts("1"), "5", 3)
		env.sets.Add(ctx, keyTidsVotes("1"), "5", 3)
		env.sets.Add(ctx, keyTidsLastPost("1"), "5", 1000)
		env.sets.Add(ctx, keyUserTids("1", "owner"), "5", 900)
		env.sets.Add(ctx, keyTagTopics("1", "go"), "5", 900)

		result, err := env.service.Move(ctx, "5", "2", "mod")
		require.NoError(t, err)
		assert.Equal(t, "1", result.FromCID)
		assert.Equal(t, "2", result.ToCID)

		// Source indices are fully vacated.
		for _, key := range []string{
			keyTids("1"), keyTidsCreate("1"), keyTidsPosts("1"), keyTidsVotes("1"),
			keyTidsLastPost("1"), keyUserTids("1", "owner"), keyTagTopics("1", "go"),
		} {
			member, _ := env.sets.IsMember(ctx, key, "5")
			assert.False(t, member, "still a member of %s", key)
		}

		score, ok := env.sets.score(keyTids("2"), "5")
		require.True(t, ok)
		assert.Equal(t, float64(1000), score)

		score, ok = env.sets.score(keyTidsPosts("2"), "5")
		require.True(t, ok)
		assert.Equal(t, float64(3), score)

		score, ok = env.sets.score(keyTidsVotes("2"), "5")
		require.True(t, ok)
		assert.Equal(t, float64(3), score)

		score, ok = env.sets.score(keyTidsLastPost("2"), "5")
		require.True(t, ok)
		assert.Equal(t, float64(1000), score)

		score, ok = env.sets.score(keyUserTids("2", "owner"), "5")
		require.True(t, ok)
		assert.Equal(t, float64(900), score)

		score, ok = env.sets.score(keyTagTopics("2", "go"), "5")
		require.True(t, ok)
		assert.Equal(t, float64(900), score)

		topic, _ := env.topics.Get(ctx, "5")
		assert.Equal(t, "2", topic.CID)
		assert.Equal(t, "1", topic.OldCID)

		assert.Equal(t, -1, env.categories.counts["1"])
		assert.Equal(t, 1, env.categories.counts["2"])
		assert.ElementsMatch(t, []string{"1", "2"}, env.categories.recentCalls)
		assert.ElementsMatch(t, []string{"1", "2"}, env.categories.recountCalls)

		events := env.events.byTopic("5")
		require.Len(t, events, 1)
		assert.Equal(t, models.EventMove, events[0].Type)
		assert.Equal(t, "1", events[0].FromCID)
		assert.Equal(t, []string{TopicMoved}, env.observer.seen())
	})

	t.Run("a pinned topic lands in the destination pinned index", func(t *testing.T) {
		env := newTestEnv(t, &models.Topic{
			TID: "5", CID: "1", UID: "owner", Pinned: true, LastPostTime: 1000,
		})
		env.sets.Add(ctx, keyTidsPinned("1"), "5", 1)

		_, err := env.service.Move(ctx, "5", "2", "mod")
		require.NoError(t, err)

		score, ok := env.sets.score(keyTidsPinned("2"), "5")
		require.True(t, ok)
		assert.Equal(t, float64(env.now.UnixMilli()), score)

		for _, key := range []string{keyTids("2"), keyTidsPosts("2"), keyTidsVotes("2")} {
			member, _ := env.sets.IsMember(ctx, key, "5")
			assert.False(t, member, "unexpected member of %s", key)
		}
	})

	t.Run("same category is rejected", func(t *testing.T) {
		env := newTestEnv(t, &models.Topic{TID: "5", CID: "1"})
		_, err := env.service.Move(ctx, "5", "1", "mod")
		assert.ErrorIs(t, err, domain.ErrCantMoveSameCategory)
	})

	t.Run("missing topic", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.service.Move(ctx, "ghost", "2", "mod")
		assert.ErrorIs(t, err, domain.ErrNoTopic)
	})
}
