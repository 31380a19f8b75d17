package model

// Question is a prompt plus optional vocabulary context.
type Question struct {
	Prompt      string
	Instruction string
	Word        string
	WordType    string
	Meaning     string
	Example     string
}
