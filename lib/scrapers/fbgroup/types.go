package fbgroup

// attachment type discriminators
const (
	AttachmentImage = "image"
	AttachmentLink  = "link"
)

type User struct {
	Id   string `json:"id"`
	Name string `json:"name"`
	Url  string `json:"url"`
}

// Attachment is either an image (Url + Alt) or an outbound link (Url + Text),
// discriminated by Type.
type Attachment struct {
	Type string `json:"type"`
	Url  string `json:"url"`
	Alt  string `json:"alt,omitempty"`
	Text string `json:"text,omitempty"`
}

type Comment struct {
	Text          string `json:"text"`
	CreatedAt     int64  `json:"createdAt"`
	Author        User   `json:"author"`
	ReactionCount int    `json:"reactionCount"`
	CommentCount  int    `json:"commentCount"`
}

// Post is one structured record for a single group feed entry. Url is never
// empty (it falls back to the group url), the nested slices are never nil.
type Post struct {
	CreatedAt     int64        `json:"createdAt"`
	Url           string       `json:"url"`
	User          User         `json:"user"`
	Text          string       `json:"text"`
	Attachments   []Attachment `json:"attachments"`
	ReactionCount int          `json:"reactionCount"`
	ShareCount    int          `json:"shareCount"`
	CommentCount  int          `json:"commentCount"`
	TopComments   []Comment    `json:"topComments"`
}
