package dto

// TranscriptionResponse carries the outcome of the transcribe-and-extract
// step. Nothing is persisted at this stage; the client reviews and possibly
// edits the Q&A text before submitting the form.
type TranscriptionResponse struct {
	Transcript    string           `json:"transcript"`
	QAText        string           `json:"qa_text"`
	Pairs         []QAPairResponse `json:"pairs"`
	NumQuestions  int              `json:"num_questions"`
	NumAnswers    int              `json:"num_answers"`
	PointsAwarded int              `json:"points_awarded"`
}
