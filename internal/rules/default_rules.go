package rules

// DefaultRules returns the built-in rule set. Patterns are matched against
// lower-cased merchant text. Confidences are fixed per rule and reflect how
// specific each pattern is, not a probability estimate.
func DefaultRules() []Rule {
	return []Rule{
		// Income - highest priority so deposits never land in spending buckets.
		{
			Name:            "Direct Deposit",
			MerchantPattern: `\b(directdep|direct\s*dep|payroll|salary|wages)\b`,
			Category:        "Income",
			Priority:        100,
			Confidence:      0.95,
		},
		{
			Name:            "Interest Income",
			MerchantPattern: `\b(interest|int\s*earned|dividend)\b`,
			Category:        "Income",
			Priority:        95,
			Confidence:      0.90,
		},
		{
			Name:            "Tax Refund",
			MerchantPattern: `\b(tax\s*ref|irs\s*treas|state\s*tax\s*ref)\b`,
			Category:        "Income",
			Priority:        95,
			Confidence:      0.95,
		},
		{
			Name:            "Refund or Cashback",
			MerchantPattern: `\b(refund|reimb|reimbursement|cashback|cash\s*back)\b`,
			Category:        "Income",
			Priority:        90,
			Confidence:      0.85,
		},

		// Housing and recurring bills.
		{
			Name:            "Rent",
			MerchantPattern: `\b(rent|landlord|property\s*mgmt)\b`,
			Category:        "Housing",
			Priority:        90,
			Confidence:      0.90,
		},
		{
			Name:            "Mortgage",
			MerchantPattern: `\b(mortgage|home\s*loan)\b`,
			Category:        "Housing",
			Priority:        90,
			Confidence:      0.95,
		},
		{
			Name:            "Utilities",
			MerchantPattern: `\b(electric|gas\s*co|water\s*dept|utility|utilities|internet|comcast|verizon|at&t)\b`,
			Category:        "Utilities",
			Priority:        85,
			Confidence:      0.90,
		},
		{
			Name:            "Insurance",
			MerchantPattern: `\b(insurance|geico|allstate|state\s*farm|progressive)\b`,
			Category:        "Insurance",
			Priority:        85,
			Confidence:      0.90,
		},
		{
			Name:            "Subscriptions",
			MerchantPattern: `\b(netflix|spotify|hulu|subscription|prime\s*video|apple\.com/bill)\b`,
			Category:        "Subscriptions",
			Priority:        80,
			Confidence:      0.90,
		},

		// Day-to-day spending.
		{
			Name:            "Groceries",
			MerchantPattern: `\b(grocery|groceries|supermarket|market|safeway|kroger|trader\s*joe|whole\s*foods|aldi|costco)\b`,
			Category:        "Groceries",
			Priority:        75,
			Confidence:      0.85,
		},
		{
			Name:            "Dining",
			MerchantPattern: `\b(restaurant|cafe|coffee|starbucks|mcdonald|chipotle|doordash|grubhub|pizza|bar\s*&\s*grill)\b`,
			Category:        "Dining",
			Priority:        70,
			Confidence:      0.80,
		},
		{
			Name:            "Transport",
			MerchantPattern: `\b(uber|lyft|taxi|transit|metro|parking|toll|shell|chevron|exxon|fuel)\b`,
			Category:        "Transport",
			Priority:        70,
			Confidence:      0.80,
		},
		{
			Name:            "Travel",
			MerchantPattern: `\b(airline|airways|delta|united\s*air|hotel|marriott|hilton|airbnb|expedia)\b`,
			Category:        "Travel",
			Priority:        70,
			Confidence:      0.80,
		},
		{
			Name:            "Health",
			MerchantPattern: `\b(pharmacy|cvs|walgreens|clinic|medical|dental|hospital)\b`,
			Category:        "Health",
			Priority:        70,
			Confidence:      0.80,
		},
		{
			Name:            "Fitness",
			MerchantPattern: `\b(gym|fitness|crossfit|yoga)\b`,
			Category:        "Fitness",
			Priority:        65,
			Confidence:      0.80,
		},
		{
			Name:            "Shopping",
			MerchantPattern: `\b(amazon|amzn|target|walmart|best\s*buy|ebay|etsy)\b`,
			Category:        "Shopping",
			Priority:        60,
			Confidence:      0.75,
		},

		// Transfers and cash, low confidence on purpose: the merchant text
		// says how the money moved, not what it was for.
		{
			Name:            "ATM Withdrawal",
			MerchantPattern: `\b(atm|cash\s*withdrawal)\b`,
			Category:        "Cash",
			Priority:        55,
			Confidence:      0.70,
		},
		{
			Name:            "Transfer",
			MerchantPattern: `\b(transfer|xfer|zelle|venmo|paypal)\b`,
			Category:        "Transfers",
			Priority:        50,
			Confidence:      0.65,
		},
	}
}
