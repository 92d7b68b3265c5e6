package usecase

const (
	IntentFarmingAdvice = "farming_advice"
	IntentLandRental    = "land_rental"
	IntentPlatformHelp  = "platform_help"
	IntentPaymentHelp   = "payment_help"
	IntentVerification  = "verification"
	IntentLocation      = "location"
	IntentAgreement     = "agreement"
	IntentSupport       = "support"
	IntentGeneral       = "general"
)

type intentRule struct {
	intent   string
	keywords []string
}

// intentTable is matched in order; the first rule with a keyword in the text wins.
var intentTable = []intentRule{
	{IntentFarmingAdvice, []string{"soil", "crop", "water", "irrigation", "fertilizer", "pest"}},
	{IntentLandRental, []string{"rent", "lease", "land", "property"}},
	{IntentPlatformHelp, []string{"register", "login", "account", "profile"}},
	{IntentPaymentHelp, []string{"payment", "money", "cost", "price", "fee"}},
	{IntentVerification, []string{"verify", "document", "proof", "authentic"}},
	{IntentLocation, []string{"location", "near", "distance", "area"}},
	{IntentAgreement, []string{"agreement", "contract", "terms", "sign"}},
	{IntentSupport, []string{"help", "support", "contact", "issue"}},
}

var fallbackResponses = map[string]string{
	IntentFarmingAdvice: "Start with a soil test so you know its composition and nutrient levels, then pick crops that suit your soil, " +
		"water availability and local climate. Drip irrigation usually uses water more efficiently than flooding, and rotating crops " +
		"keeps the soil healthy. What are you planning to grow?",
	IntentLandRental: "To rent land, sign up as a farmer, search listings in the area you prefer, message the landowner and agree on terms. " +
		"Landowners can list a plot by registering as a landowner and adding its location, price and documents. " +
		"Would you like help getting started?",
	IntentPlatformHelp: "You can register as a farmer or a landowner, then complete your profile with your address, experience " +
		"and contact details. A complete profile builds trust with the people you deal with.",
	IntentPaymentHelp: "Installments can be paid online, by bank transfer, in cash or by cheque. Every installment is tracked " +
		"against the rental schedule and landowners can send reminders before the due date.",
	IntentVerification: "Land verification needs documents such as the land deed, property tax receipts and survey reports. " +
		"They are reviewed before the listing is marked verified.",
	IntentLocation: "Search listings by location with a latitude, longitude and radius in kilometers, or filter by state, " +
		"district, city and village to find land close to you.",
	IntentAgreement: "An agreement is generated once the landowner and farmer settle the terms. It lists the rental period, " +
		"payment schedule and responsibilities, and becomes active after both parties sign.",
	IntentSupport: "I can answer general farming and platform questions. For account problems or anything urgent, " +
		"please reach out to the support team from the help section.",
	IntentGeneral: "I'm here to help with farming and land rental questions. Ask me about soil preparation, crop selection, " +
		"renting land, payments or agreements. What would you like to know?",
}

var quickResponses = map[string]string{
	IntentFarmingAdvice: "I can help with farming advice. Which part interests you: soil preparation, crop selection, irrigation or pest management?",
	IntentLandRental:    "Are you looking to rent land or to list your own land for rent?",
	IntentPlatformHelp:  "I can guide you through registration, profile setup or any feature. What do you need help with?",
	IntentPaymentHelp:   "Payments are tracked per installment with reminders for due dates. What is your payment question?",
	IntentVerification:  "Verification reviews documents like land deeds and tax receipts. Do you need help with the process?",
	IntentLocation:      "You can search land around any point by radius. Which area are you interested in?",
	IntentAgreement:     "Agreements are generated from the agreed terms and activate once both sides sign. What would you like to know?",
	IntentSupport:       "For technical or urgent issues please contact support. For general questions, ask away.",
	IntentGeneral:       "Ask me anything about farming or renting land on the platform.",
}

type FAQ struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

var faqs = []FAQ{
	{"How do I rent land through the platform?", "Create a farmer account, search for available land where you want to farm, contact the landowner and agree on terms. The landowner then generates the rental agreement."},
	{"How do I list my land for rent?", "Register as a landowner and add the land's location, acreage, price per acre and documents."},
	{"What documents are needed for land verification?", "Land deeds, property tax receipts, survey reports and other proof of ownership."},
	{"How are payments handled?", "Each rental has a monthly installment schedule. Installments can be paid online, by bank transfer, in cash or by cheque, and every payment is recorded."},
	{"Can I search for land by location?", "Yes. Search around a point with a radius in kilometers, or filter by state, district, city and village."},
	{"How do rental agreements work?", "The landowner generates an agreement with the rental terms and payment schedule. It becomes active once both parties have signed it."},
	{"What if I have farming questions?", "Ask the assistant about crop selection, soil preparation, irrigation and other farming topics."},
	{"How do I contact support?", "Use the help section to reach the support team for account or technical issues."},
}

var farmingTips = []string{
	"Test your soil before planting to understand its composition and nutrient levels.",
	"Rotate crops to maintain soil health and reduce pest problems.",
	"Prefer organic fertilizers where possible to improve soil structure.",
	"Match your irrigation method to the crop and the soil type.",
	"Inspect crops regularly for signs of pests or disease.",
	"Keep records of sowing, inputs and yields to plan the next season.",
	"Consider intercropping to use land better and improve yields.",
	"Mulch to conserve soil moisture and keep weeds down.",
	"Plan the farming calendar around local weather patterns.",
	"Share knowledge with nearby farmers and learn from their experience.",
}

var platformTips = []string{
	"Complete your profile with accurate information to build trust.",
	"Upload clear photos of your land.",
	"Reply to inquiries promptly.",
	"Use chat to discuss terms before an agreement is generated.",
	"Keep track of the payment schedule to avoid delays.",
	"Read the rental agreement carefully before signing.",
	"Use location search to find land close to you.",
	"Check the verification status of a listing before committing.",
	"Keep your ratings high by honoring your commitments.",
	"Contact support if something does not work as expected.",
}
