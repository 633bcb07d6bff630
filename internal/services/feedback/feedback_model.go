package feedback

import (
	"time"

	"github.com/google/uuid"
)

type Feedback struct {
	ID        uuid.UUID `db:"id" json:"id"`
	TaskID    uuid.UUID `db:"task_id" json:"taskId"`
	AuthorID  uuid.UUID `db:"author_id" json:"authorId"`
	Rating    int       `db:"rating" json:"rating"`
	Comment   *string   `db:"comment" json:"comment,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

type CreateFeedbackRequest struct {
	TaskID  uuid.UUID `json:"taskId"`
	Rating  int       `json:"rating"`
	Comment *string   `json:"comment,omitempty"`
}

type UpdateFeedbackRequest struct {
	Rating  *int    `json:"rating,omitempty"`
	Comment *string `json:"comment,omitempty"`
}
