package txstate

import (
	"github.com/amp-labs/txprocess/process"
)

const (
	review1ByCustomer process.Transition = "transition/review-1-by-customer"
	review1ByProvider process.Transition = "transition/review-1-by-provider"
	review2ByCustomer process.Transition = "transition/review-2-by-customer"
	review2ByProvider process.Transition = "transition/review-2-by-provider"
)

func firstReview(actor process.Actor) process.Transition {
	if actor == process.ActorCustomer {
		return review1ByCustomer
	}

	return review1ByProvider
}

// reviewRules adds the review phase that follows completed: a first review from
// either party, then the second review from the other one.
func reviewRules(r *resolver, v view, completed process.State) *resolver {
	return r.
		Cond(exact(completed), anyone, with(v.base, func(d *StateData) {
			d.ShowReviewAsFirstLink = true
			actions(firstReview(v.actor), "")(d)
		})).
		Cond(exact("reviewed-by-provider"), customer, with(v.base, func(d *StateData) {
			d.ShowReviewAsSecondLink = true
			actions(review2ByCustomer, "")(d)
		})).
		Cond(exact("reviewed-by-customer"), provider, with(v.base, func(d *StateData) {
			d.ShowReviewAsSecondLink = true
			actions(review2ByProvider, "")(d)
		})).
		Cond(exact("reviewed"), anyone, with(v.base, func(d *StateData) {
			d.ShowReviews = true
		}))
}

func orderPanel(v view) func(*StateData) {
	return func(d *StateData) {
		d.ShowOrderPanel = !v.opts.ProviderBanned
	}
}

func extraInfo(d *StateData) {
	d.ShowExtraInfo = true
}

func purchaseTable(r *resolver, v view) *resolver {
	r = r.
		Cond(exact("inquiry"), customer, with(v.base, orderPanel(v))).
		Cond(exact("pending-payment"), customer, with(v.base, extraInfo)).
		Cond(exact("purchased"), customer, with(v.base, func(d *StateData) {
			extraInfo(d)
			actions("transition/mark-received-from-purchased", "")(d)
		})).
		Cond(exact("purchased"), provider, with(v.base, actions("transition/mark-delivered", ""))).
		Cond(exact("delivered"), customer, with(v.base, func(d *StateData) {
			d.ShowDispute = true
			actions("transition/mark-received", "transition/dispute")(d)
		}))

	return reviewRules(r, v, "completed")
}

func bookingTable(r *resolver, v view) *resolver {
	r = r.
		Cond(exact("inquiry"), customer, with(v.base, orderPanel(v))).
		Cond(exact("preauthorized"), customer, with(v.base, extraInfo)).
		Cond(exact("preauthorized"), provider, with(v.base, func(d *StateData) {
			if !v.opts.CustomerBanned {
				actions("transition/accept", "transition/decline")(d)
			}
		}))

	return reviewRules(r, v, "delivered")
}

func inquiryTable(r *resolver, v view) *resolver {
	return r.Cond(exact("free-inquiry"), customer, with(v.base, orderPanel(v)))
}

func negotiationTable(r *resolver, v view) *resolver {
	r = r.
		Cond(exact("quote-requested"), provider, with(v.base, func(d *StateData) {
			if !v.opts.CustomerBanned {
				actions("transition/make-offer-from-request", "transition/reject-request")(d)
			}
		})).
		Cond(exact("offer-pending"), customer, with(v.base, func(d *StateData) {
			if !v.opts.ProviderBanned {
				actions("transition/request-payment", "transition/customer-reject-offer")(d)
			}
		})).
		Cond(exact("offer-pending"), provider, with(v.base, actions("", "transition/provider-withdraw-offer"))).
		Cond(exact("offer-accepted"), provider, with(v.base, func(d *StateData) {
			extraInfo(d)
			actions("transition/mark-delivered", "")(d)
		})).
		Cond(exact("delivered"), customer, with(v.base,
			actions("transition/accept-deliverable", "transition/request-changes"))).
		Cond(exact("changes-requested"), provider, with(v.base, actions("transition/mark-delivered-changes", "")))

	return reviewRules(r, v, "completed")
}
