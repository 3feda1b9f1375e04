package txn

// Builder collects operations and options for Build.
type Builder struct {
	sender string
	ops    []Operation
	opts   Options
}

func NewBuilder(sender string) *Builder {
	return &Builder{sender: sender}
}

func (b *Builder) Add(ops ...Operation) *Builder {
	b.ops = append(b.ops, ops...)
	return b
}

func (b *Builder) Fee(fee uint64) *Builder {
	b.opts.Fee = fee
	return b
}

func (b *Builder) PaymentAmount(amount uint64) *Builder {
	b.opts.PaymentAmount = amount
	return b
}

func (b *Builder) Optins(apps ...uint64) *Builder {
	b.opts.Optins = append(b.opts.Optins, apps...)
	return b
}

func (b *Builder) Accounts(accounts ...string) *Builder {
	b.opts.Accounts = append(b.opts.Accounts, accounts...)
	return b
}

func (b *Builder) ResourceSharing(sharing ResourceSharing) *Builder {
	b.opts.ResourceSharing = sharing
	return b
}

func (b *Builder) MaxSize(size int) *Builder {
	b.opts.MaxSize = size
	return b
}

func (b *Builder) Sender() string {
	return b.sender
}

func (b *Builder) Operations() []Operation {
	return b.ops
}

func (b *Builder) Options() Options {
	return b.opts
}

func (b *Builder) Build() (*Group, error) {
	return Build(b.sender, b.ops, b.opts)
}
