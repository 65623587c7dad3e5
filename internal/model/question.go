package model

// Answer is one selectable option of a question with its point value
type Answer struct {
	Text   string `json:"text"`
	Points int    `json:"points"`
}

// Question is one entry of an age category's ordered question list
type Question struct {
	Number  int      `json:"number"` // 1-based, unique within its category
	Text    string   `json:"text"`
	Answers []Answer `json:"answers"`
}
