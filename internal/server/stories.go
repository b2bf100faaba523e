package server

import (
	"errors"
	"net/http"

	"tuinue/pkg/types"

	"github.com/alexedwards/flow"
)

func (s *Service) handleListStories(w http.ResponseWriter, r *http.Request) {
	var ctx = r.Context()

	params := s.pageParams(r.URL.Query())

	stories, err := s.storiesRepo.Stories(ctx, params.Limit(), params.Offset())
	if err != nil {
		s.logger.WithError(err).Error("failed to list stories")
		s.writeError(w, http.StatusInternalServerError, "Unable to list stories")
		return
	}

	s.writeJSON(w, http.StatusOK, stories)
}

func (s *Service) handleGetStory(w http.ResponseWriter, r *http.Request) {
	var ctx = r.Context()

	storyID := flow.Param(ctx, "id")

	story, err := s.storiesRepo.Story(ctx, storyID)
	if err != nil {
		if errors.Is(err, types.ErrStoryNotFound) {
			s.writeError(w, http.StatusNotFound, "Story not found")
			return
		}
		s.logger.WithError(err).Error("failed to fetch story")
		s.writeError(w, http.StatusInternalServerError, "Unable to fetch story")
		return
	}

	s.writeJSON(w, http.StatusOK, story)
}
