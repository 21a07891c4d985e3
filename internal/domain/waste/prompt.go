package waste

// ImageClassificationPrompt is sent alongside an uploaded image.
const ImageClassificationPrompt = "Tell me what components of the image are useful or renewable, " +
	"and by what percentage of the image? What examples of products can I make out of it? " +
	"Are the products cost effective?"

// SuggestionPrompt wraps the entry summary and the user's request into the prompt
// used for product suggestions.
func SuggestionPrompt(entries []Entry, userPrompt string) string {
	return "The following waste data has been submitted:\n\n" + Summary(entries) +
		"\n\nBased on this, " + userPrompt
}
