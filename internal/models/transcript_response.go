package models

// TranscriptResponse is the export data contract: the complete ascending
// history between the pair plus both display identities. Rendering is the
// consuming collaborator's job.
type TranscriptResponse struct {
	Admin    UserResponse          `json:"admin"`
	Client   UserResponse          `json:"client"`
	Messages []ChatMessageResponse `json:"messages"`
}
