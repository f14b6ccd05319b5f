/*
Package reflux provides a predictable state container: a Store holding one
value of application state that changes only when an action is dispatched
through a pure reducer.

reflux is designed to be embedded within services and tools that need a
single, observable source of truth. Every change to the state goes through
one path: middleware, then the reducer, then subscriber notification.

# Basic Usage

Define a reducer and create a store:

	func counter(state int, action reflux.Action) (int, error) {
	    switch action.Kind() {
	    case "INC":
	        return state + 1, nil
	    case "DEC":
	        return state - 1, nil
	    }
	    return state, nil
	}

	store, err := reflux.New(counter)
	if err != nil {
	    return err
	}

	unsubscribe := store.Subscribe(func() {
	    fmt.Println("state:", store.GetState())
	})
	defer unsubscribe()

	store.Dispatch(ctx, reflux.Basic{Type: "INC"})

The initial state is whatever the reducer returns for the zero value of the
state type and a KindInit action.

# Reducers

Reducers must be pure. They receive every action and return the state
unchanged for kinds they do not handle. Cases builds a reducer from a table
of per-kind handlers, and Handle binds a handler to a typed action:

	cases := reflux.NewCases(CakeState{NumCakes: 10})
	reflux.Handle(cases, func(s CakeState, a BuyCake) (CakeState, error) {
	    s.NumCakes -= a.Count
	    return s, nil
	})
	reducer := cases.Reducer()

Combine composes per-slice reducers into a reducer over a Tree. Each slice
sees every action; a slice that returns its previous value keeps its
identity in the next tree.

	root, err := reflux.Combine(map[string]reflux.Reducer[any]{
	    "cake":   reflux.Slice(cakeReducer),
	    "cookie": reflux.Slice(cookieReducer),
	})

# Middleware

Middleware wraps dispatch. The first middleware passed to New is the
outermost, so it sees an action first and finishes last:

	store, err := reflux.New(reducer,
	    reflux.WithLogger[State](logger, nil),
	    reflux.WithThunk[State](),
	    reflux.WithValidation[State](),
	)

Included middleware:

	WithThunk       runs Thunk values instead of forwarding them
	WithLogger      logs each action with the state before and after
	WithValidation  checks struct actions against their validate tags
	WithPipeline    runs actions through pipz processors

# Async Work

Async builds a thunk around a Task. It dispatches a request action, runs the
task on its own goroutine, and dispatches a success or failure action when
the task settles:

	fetchUsers := reflux.Async[State, []User](
	    client.Users,
	    reflux.Continuations[[]User]{
	        Request:   FetchUsersRequest{},
	        OnSuccess: func(u []User) reflux.Action { return FetchUsersSuccess{Users: u} },
	        OnFailure: func(err error) reflux.Action { return FetchUsersError{Err: err} },
	    },
	    reflux.WithTimeout[[]User](5*time.Second),
	    reflux.WithRetry[[]User](3),
	)
	store.Dispatch(ctx, fetchUsers)

Reliability options (WithRetry, WithBackoff, WithTimeout,
WithCircuitBreaker, WithRateLimit, WithFallback, WithErrorHandler) are
opt-in per task.

# Feeds

A Feed dispatches encoded action batches from a Watcher into a store:

	feed := reflux.NewFeed(store, reflux.NewFileWatcher("actions.yaml")).
	    Codec(reflux.YAMLCodec{})

	if err := feed.Start(ctx); err != nil {
	    log.Printf("initial batch failed: %v", err)
	}

# Concurrency

A Store is safe for concurrent use. Dispatches from different goroutines are
serialized. Dispatches made synchronously from middleware, thunks, or
subscribers run as nested cycles. A reducer that dispatches gets
ErrReentrantDispatch.

# Observability

The store, async tasks, and feeds emit capitan signals (see signals.go) and
report to an optional MetricsProvider.
*/
package reflux
