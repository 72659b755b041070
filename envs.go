package hopx

import "context"

// Envs manages environment variables inside one sandbox. Changes apply
// to commands started after the change.
type Envs struct {
	sandbox *Sandbox
}

// GetAll returns every environment variable set on the agent. The map
// is never nil.
func (e *Envs) GetAll(ctx context.Context) (map[string]string, error) {
	return e.sandbox.agent.GetEnvVars(ctx)
}

// Get returns one variable. ok is false when it is not set.
func (e *Envs) Get(ctx context.Context, key string) (value string, ok bool, err error) {
	vars, err := e.sandbox.agent.GetEnvVars(ctx)
	if err != nil {
		return "", false, err
	}
	value, ok = vars[key]
	return value, ok, nil
}

// Set sets one variable, leaving the rest untouched.
func (e *Envs) Set(ctx context.Context, key, value string) error {
	return e.sandbox.agent.UpdateEnvVars(ctx, map[string]string{key: value})
}

// Update merges vars into the agent's environment.
func (e *Envs) Update(ctx context.Context, vars map[string]string) error {
	return e.sandbox.agent.UpdateEnvVars(ctx, vars)
}

// SetAll replaces the agent's full environment with vars.
func (e *Envs) SetAll(ctx context.Context, vars map[string]string) error {
	return e.sandbox.agent.SetEnvVars(ctx, vars)
}

// Delete removes one variable. The agent has no delete endpoint, so
// this reads the full set, drops the key, and writes the set back.
// A concurrent writer between the read and the write can be lost.
func (e *Envs) Delete(ctx context.Context, key string) error {
	vars, err := e.sandbox.agent.GetEnvVars(ctx)
	if err != nil {
		return err
	}
	if _, ok := vars[key]; !ok {
		return nil
	}
	delete(vars, key)
	return e.sandbox.agent.SetEnvVars(ctx, vars)
}
