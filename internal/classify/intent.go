// Package classify provides text normalization, query fingerprinting, and
// the rule-based intent classifier for the support bot.
package classify

// Intent represents the classified purpose category of a user query.
type Intent string

const (
	// IntentAppRelated covers service-app queries with no narrower match.
	IntentAppRelated Intent = "app_related"
	// IntentGeneral covers general knowledge questions outside the app.
	IntentGeneral Intent = "general"
	// IntentInappropriate marks abusive or profane content.
	IntentInappropriate Intent = "inappropriate_content"
	// IntentCleaning is the house-cleaning service sub-intent.
	IntentCleaning Intent = "cleaning_service"
	// IntentCooking is the personal-chef service sub-intent.
	IntentCooking Intent = "cooking_service"
	// IntentRepair is the appliance-repair service sub-intent.
	IntentRepair Intent = "repair_service"
	// IntentPolicy covers cancellation, refund, and payment policy questions.
	IntentPolicy Intent = "policy"
	// IntentAccount covers account and authentication questions.
	IntentAccount Intent = "account"
)

// IsServiceQuote reports whether the intent routes to a pricing calculator.
func (i Intent) IsServiceQuote() bool {
	switch i {
	case IntentCleaning, IntentCooking, IntentRepair:
		return true
	}
	return false
}

// IsRetrieval reports whether the intent routes to the retrieval-augmented
// handler.
func (i Intent) IsRetrieval() bool {
	switch i {
	case IntentAppRelated, IntentPolicy, IntentAccount:
		return true
	}
	return false
}
