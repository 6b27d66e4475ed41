// Package taskgroup corre tareas independientes en paralelo y junta un resultado
// (valor o error) por tarea. Un fallo nunca cancela a las hermanas.
package taskgroup

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Result es el resultado "settled" de una tarea.
type Result[T any] struct {
	Value T
	Err   error
}

func (r Result[T]) OK() bool { return r.Err == nil }

// Settle ejecuta fn(ctx, i) para i en [0, n) en paralelo y espera a todas.
// El resultado i corresponde a la tarea i.
func Settle[T any](ctx context.Context, n int, fn func(ctx context.Context, i int) (T, error)) []Result[T] {
	return SettleBatched(ctx, n, n, fn)
}

// SettleBatched procesa en tandas de width tareas: la tanda k+1 no arranca hasta
// que todas las tareas de la tanda k terminan. Dentro de una tanda no hay orden.
func SettleBatched[T any](ctx context.Context, n, width int, fn func(ctx context.Context, i int) (T, error)) []Result[T] {
	if n <= 0 {
		return nil
	}
	if width <= 0 || width > n {
		width = n
	}

	out := make([]Result[T], n)
	for start := 0; start < n; start += width {
		end := min(start+width, n)

		// Sin errgroup.WithContext: no queremos que un error cancele al resto.
		var g errgroup.Group
		for i := start; i < end; i++ {
			g.Go(func() error {
				out[i] = run(ctx, i, fn)
				return nil
			})
		}
		_ = g.Wait()
	}
	return out
}

// Pair corre dos tareas de tipos distintos en paralelo y espera a ambas.
func Pair[A, B any](ctx context.Context, fa func(context.Context) (A, error), fb func(context.Context) (B, error)) (Result[A], Result[B]) {
	var (
		ra Result[A]
		rb Result[B]
		g  errgroup.Group
	)
	g.Go(func() error {
		ra = run(ctx, 0, func(ctx context.Context, _ int) (A, error) { return fa(ctx) })
		return nil
	})
	g.Go(func() error {
		rb = run(ctx, 1, func(ctx context.Context, _ int) (B, error) { return fb(ctx) })
		return nil
	})
	_ = g.Wait()
	return ra, rb
}

func run[T any](ctx context.Context, i int, fn func(ctx context.Context, i int) (T, error)) (res Result[T]) {
	defer func() {
		if p := recover(); p != nil {
			res = Result[T]{Err: fmt.Errorf("task %d panicked: %v", i, p)}
		}
	}()
	v, err := fn(ctx, i)
	return Result[T]{Value: v, Err: err}
}
