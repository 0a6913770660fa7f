package catalog

import "github.com/mintwell/mintwell/internal/model"

// Default returns the built-in content and offer catalog. Deployments can
// replace it with a YAML catalog via LoadFile.
func Default() *Catalog {
	c, err := New(defaultEntries())
	if err != nil {
		// The built-in entries are validated by tests; a failure here is a
		// programming error.
		panic(err)
	}
	return c
}

func defaultEntries() []Entry {
	return []Entry{
		// Education: high utilization.
		{
			ID:       "edu-utilization-paydown",
			Kind:     model.KindEducation,
			Title:    "Bring Down Credit Utilization",
			Personas: []model.PersonaID{model.PersonaHighUtilization},
			Trigger:  []Condition{{Signal: "max_utilization", Op: ">=", Value: 0.50}},
			RationaleTemplates: []string{
				"Your card utilization has reached {max_utilization} with a balance of {max_card_balance}. Paying the balance below 30% of the limit typically helps credit scores recover.",
				"Your card utilization has reached {max_utilization}. Paying the balance below 30% of the limit typically helps credit scores recover.",
			},
			ActionItems: []string{
				"List each card's balance and limit side by side",
				"Pick the card with the highest utilization and pay it first",
				"Set a mid-cycle payment reminder so the reported balance is lower",
				"Avoid new charges on the highest-utilization card this month",
			},
			ExpectedImpact: "Lower utilization is one of the fastest levers for improving a credit score.",
		},
		{
			ID:       "edu-interest-costs",
			Kind:     model.KindEducation,
			Title:    "Understand the Cost of Carrying a Balance",
			Personas: []model.PersonaID{model.PersonaHighUtilization},
			Trigger:  []Condition{{Signal: "interest_charges", Op: ">", Value: 0}},
			RationaleTemplates: []string{
				"You paid {interest_charges} in interest on revolving balances last statement. Paying more than the minimum reduces that cost every month.",
			},
			ActionItems: []string{
				"Find the APR on each statement",
				"Calculate the monthly interest your current balance generates",
				"Pay more than the minimum on the highest-APR balance",
			},
			ExpectedImpact: "Redirecting interest payments toward principal shortens the payoff timeline.",
		},
		{
			ID:       "edu-payoff-plan",
			Kind:     model.KindEducation,
			Title:    "Build a Payoff Plan",
			Personas: []model.PersonaID{model.PersonaHighUtilization},
			Trigger:  []Condition{{Signal: "max_utilization", Op: ">=", Value: 0.30}},
			RationaleTemplates: []string{
				"With utilization at {max_utilization}, a structured payoff plan (avalanche or snowball) makes progress visible and keeps momentum.",
			},
			ActionItems: []string{
				"Choose avalanche (highest APR first) or snowball (smallest balance first)",
				"Set a fixed monthly payoff amount above the minimums",
				"Track the balance monthly and celebrate each milestone",
			},
			ExpectedImpact: "A fixed plan typically pays debt down months faster than minimum payments.",
		},

		// Education: variable income.
		{
			ID:       "edu-income-smoothing",
			Kind:     model.KindEducation,
			Title:    "Smooth Out Variable Income",
			Personas: []model.PersonaID{model.PersonaVariableIncome},
			Trigger:  []Condition{{Signal: "cash_flow_buffer_months", Op: "<", Value: 1}},
			RationaleTemplates: []string{
				"Your liquid balance covers {cash_flow_buffer_months} of typical spending ({avg_monthly_expense}/month). A baseline-budget approach smooths the gaps between deposits.",
			},
			ActionItems: []string{
				"Compute your lowest-income month from the last six",
				"Budget essentials against that floor, not the average",
				"Sweep anything above the floor into a buffer account",
				"Draw from the buffer in lean months instead of credit",
			},
			ExpectedImpact: "A one-month buffer removes most of the stress of irregular paydays.",
		},
		{
			ID:       "edu-percent-budgeting",
			Kind:     model.KindEducation,
			Title:    "Budget by Percentages, Not Dollars",
			Personas: []model.PersonaID{model.PersonaVariableIncome},
			Trigger:  []Condition{{Signal: "avg_monthly_income", Op: ">", Value: 0}},
			RationaleTemplates: []string{
				"With income averaging {avg_monthly_income}/month but arriving unevenly, percentage-based allocations adapt automatically to each deposit.",
			},
			ActionItems: []string{
				"Pick target percentages for essentials, savings, and flexible spending",
				"Apply the percentages to every deposit on arrival",
				"Review the split after four deposits and adjust",
			},
			ExpectedImpact: "Percentage budgeting keeps saving consistent even when income is not.",
		},

		// Education: subscription heavy.
		{
			ID:       "edu-subscription-audit",
			Kind:     model.KindEducation,
			Title:    "Audit Your Subscriptions",
			Personas: []model.PersonaID{model.PersonaSubscriptionHeavy},
			Trigger:  []Condition{{Signal: "subscription_count", Op: ">=", Value: 3}},
			RationaleTemplates: []string{
				"You spend {subscription_spend} across {subscription_count} recurring merchants, {subscription_share} of your total spending. Most households find at least one forgotten subscription in an audit.",
				"You have {subscription_count} recurring merchants charging you regularly. Most households find at least one forgotten subscription in an audit.",
			},
			ActionItems: []string{
				"Export the recurring merchant list from your latest statement",
				"Mark each subscription used in the last 30 days",
				"Cancel anything unused, starting with the most expensive",
				"Set a quarterly reminder to repeat the audit",
			},
			ExpectedImpact: "Cancelling one unused subscription often saves $10-$30 every month.",
		},
		{
			ID:       "edu-trim-recurring",
			Kind:     model.KindEducation,
			Title:    "Negotiate or Downgrade Recurring Bills",
			Personas: []model.PersonaID{model.PersonaSubscriptionHeavy},
			Trigger:  []Condition{{Signal: "subscription_share", Op: ">=", Value: 0.10}},
			RationaleTemplates: []string{
				"Recurring charges make up {subscription_share} of your spending ({subscription_spend} in the window). Annual plans and retention offers routinely cut 15-40% off list price.",
			},
			ActionItems: []string{
				"Identify the three most expensive recurring charges",
				"Check each for an annual plan or family tier",
				"Ask support for a retention discount before renewing",
			},
			ExpectedImpact: "Downgrading two services typically recovers 10-20% of subscription spend.",
		},

		// Education: savings builder.
		{
			ID:       "edu-automate-savings",
			Kind:     model.KindEducation,
			Title:    "Automate the Savings Habit",
			Personas: []model.PersonaID{model.PersonaSavingsBuilder},
			Trigger:  []Condition{{Signal: "savings_net_inflow", Op: ">", Value: 0}},
			RationaleTemplates: []string{
				"You moved {savings_net_inflow} into savings this window. An automatic transfer on payday makes that progress repeatable without willpower.",
			},
			ActionItems: []string{
				"Schedule an automatic transfer for the day after payday",
				"Start with the amount you saved last month",
				"Increase the transfer by a small step each quarter",
			},
			ExpectedImpact: "Automated savers put away roughly twice as much as manual savers.",
		},
		{
			ID:       "edu-emergency-fund-target",
			Kind:     model.KindEducation,
			Title:    "Set an Emergency Fund Target",
			Personas: []model.PersonaID{model.PersonaSavingsBuilder, model.PersonaVariableIncome},
			Trigger:  []Condition{{Signal: "emergency_fund_months", Op: "<", Value: 3}},
			RationaleTemplates: []string{
				"Your emergency savings cover {emergency_fund_months} of expenses. Three months is the usual first milestone; a named target makes it concrete.",
			},
			ActionItems: []string{
				"Multiply your monthly essentials by three for the target",
				"Open a separate account so the fund stays untouched",
				"Direct windfalls (refunds, bonuses) to the fund first",
			},
			ExpectedImpact: "A three-month fund prevents most emergencies from becoming debt.",
		},

		// Education: balanced/stable.
		{
			ID:       "edu-keep-course",
			Kind:     model.KindEducation,
			Title:    "Keep Up the Good Habits",
			Personas: []model.PersonaID{model.PersonaBalancedStable},
			RationaleTemplates: []string{
				"Your emergency savings cover {emergency_fund_months} of expenses and your accounts are in good shape. A yearly checkup keeps it that way.",
			},
			ActionItems: []string{
				"Review insurance coverage once a year",
				"Check that retirement contributions still match your goals",
				"Rebalance long-term savings if any allocation drifted",
			},
			ExpectedImpact: "Annual checkups catch drift before it becomes a problem.",
		},
		{
			ID:       "edu-optimize-yield",
			Kind:     model.KindEducation,
			Title:    "Put Idle Cash to Work",
			Personas: []model.PersonaID{model.PersonaBalancedStable, model.PersonaSavingsBuilder},
			Trigger:  []Condition{{Signal: "liquid_balance", Op: ">=", Value: 1000}},
			RationaleTemplates: []string{
				"You hold {liquid_balance} in liquid accounts. Moving cash beyond your buffer into a higher-yield account earns meaningfully more at no extra risk.",
			},
			ActionItems: []string{
				"Keep one month of expenses in checking",
				"Compare high-yield savings rates from at least three banks",
				"Move the surplus and enable automatic interest reinvestment",
			},
			ExpectedImpact: "Moving idle cash to a high-yield account can add 4%+ annual return on that balance.",
		},

		// Partner offers.
		{
			ID:       "offer-balance-transfer",
			Kind:     model.KindOffer,
			Title:    "0% Intro APR Balance Transfer Card",
			Personas: []model.PersonaID{model.PersonaHighUtilization},
			Trigger:  []Condition{{Signal: "max_utilization", Op: ">=", Value: 0.50}},
			RationaleTemplates: []string{
				"With a {max_card_balance} balance at {max_utilization} utilization, a 0% intro-APR transfer window could pause interest while you pay it down.",
			},
			ActionItems: []string{
				"Check the transfer fee against your projected interest",
				"Confirm you can clear the balance inside the intro period",
				"Keep the old card open to preserve credit history",
			},
			ExpectedImpact: "Pausing interest for 12-18 months can save hundreds of dollars on a carried balance.",
			Eligibility: &Eligibility{
				MinMonthlyIncome: 2000,
				MaxUtilization:   0.95,
			},
		},
		{
			ID:       "offer-hysa",
			Kind:     model.KindOffer,
			Title:    "High-Yield Savings Account",
			Personas: []model.PersonaID{model.PersonaSavingsBuilder, model.PersonaBalancedStable},
			Trigger:  []Condition{{Signal: "liquid_balance", Op: ">=", Value: 500}},
			RationaleTemplates: []string{
				"Your {liquid_balance} in liquid balances could earn a meaningfully higher rate in a high-yield savings account.",
			},
			ActionItems: []string{
				"Compare the advertised APY with your current rate",
				"Confirm there are no minimum-balance fees",
				"Set up the transfer link from your checking account",
			},
			ExpectedImpact: "A competitive APY typically earns 10x the national average savings rate.",
			Eligibility: &Eligibility{
				MinLiquidBalance: 500,
			},
		},
		{
			ID:       "offer-budget-app",
			Kind:     model.KindOffer,
			Title:    "Premium Budgeting App Trial",
			Personas: []model.PersonaID{model.PersonaVariableIncome, model.PersonaSubscriptionHeavy},
			Trigger:  []Condition{{Signal: "avg_monthly_expense", Op: ">", Value: 0}},
			RationaleTemplates: []string{
				"You average {avg_monthly_expense}/month in spending. A budgeting app that tracks recurring charges and irregular income can surface savings automatically.",
			},
			ActionItems: []string{
				"Connect your primary checking account during the trial",
				"Enable recurring-charge alerts",
				"Review the first month's report before the trial ends",
			},
			ExpectedImpact: "Users who track spending actively reduce discretionary spend by 5-15%.",
		},
		{
			ID:       "offer-credit-builder",
			Kind:     model.KindOffer,
			Title:    "Secured Credit-Builder Card",
			Personas: []model.PersonaID{model.PersonaHighUtilization, model.PersonaVariableIncome},
			Trigger:  []Condition{{Signal: "max_utilization", Op: ">=", Value: 0.80}},
			RationaleTemplates: []string{
				"With utilization at {max_utilization}, a secured card used lightly adds positive history while the main balance comes down.",
			},
			ActionItems: []string{
				"Fund the deposit with an amount you will not miss",
				"Put one small recurring charge on the card",
				"Enable autopay in full each month",
			},
			ExpectedImpact: "Six months of on-time history on a secured card measurably helps thin or bruised credit.",
			Eligibility: &Eligibility{
				MinMonthlyIncome: 1000,
				MinLiquidBalance: 200,
			},
		},
	}
}
