package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"github.com/tidepool-org/identity/common"
	"github.com/tidepool-org/identity/common/logging"
	"github.com/tidepool-org/identity/identity"
	"github.com/tidepool-org/identity/services"
	"github.com/tidepool-org/identity/store"
)

type roleAdmin interface {
	EnsureIndexes(ctx context.Context) error
	CreateRole(ctx context.Context, name string) error
	AddRoleToUser(ctx context.Context, email, role string) error
	RemoveRoleFromUser(ctx context.Context, email, role string) error
	FindUsersWithRole(ctx context.Context, role string) error
	ListRoles(ctx context.Context) error
}

func main() {
	app := cli.NewApp()
	app.Name = "User Roles"
	app.Usage = "Manage identity roles and role memberships"
	app.Version = "0.0.1"

	emailFlag := cli.StringFlag{
		Name:  "email",
		Usage: "Normalized email address of the user",
	}
	roleFlag := cli.StringFlag{
		Name:  "role",
		Usage: "Name of the role",
	}

	app.Commands = []cli.Command{
		{
			Name:   "ensure-indexes",
			Usage:  "Create the identity indexes",
			Action: withAdmin(func(ctx context.Context, c *cli.Context, a roleAdmin) error { return a.EnsureIndexes(ctx) }),
		},
		{
			Name:      "create",
			ShortName: "c",
			Usage:     "Create a role",
			Flags:     []cli.Flag{roleFlag},
			Action: withAdmin(func(ctx context.Context, c *cli.Context, a roleAdmin) error {
				return a.CreateRole(ctx, c.String("role"))
			}),
		},
		{
			Name:   "roles",
			Usage:  "List all roles",
			Action: withAdmin(func(ctx context.Context, c *cli.Context, a roleAdmin) error { return a.ListRoles(ctx) }),
		},
		{
			Name:      "find",
			ShortName: "f",
			Usage:     "Find all users assigned a role",
			Flags:     []cli.Flag{roleFlag},
			Action: withAdmin(func(ctx context.Context, c *cli.Context, a roleAdmin) error {
				return a.FindUsersWithRole(ctx, c.String("role"))
			}),
		},
		{
			Name:      "add",
			ShortName: "a",
			Usage:     "Add the specified role to an existing user found by email",
			Flags:     []cli.Flag{emailFlag, roleFlag},
			Action: withAdmin(func(ctx context.Context, c *cli.Context, a roleAdmin) error {
				return a.AddRoleToUser(ctx, c.String("email"), c.String("role"))
			}),
		},
		{
			Name:      "remove",
			ShortName: "r",
			Usage:     "Remove the specified role from an existing user found by email",
			Flags:     []cli.Flag{emailFlag, roleFlag},
			Action: withAdmin(func(ctx context.Context, c *cli.Context, a roleAdmin) error {
				return a.RemoveRoleFromUser(ctx, c.String("email"), c.String("role"))
			}),
		},
	}

	if err := app.Run(os.Args); err != nil {
		die(err)
	}
}

func die(err error) {
	fmt.Println("ERROR:", err)
	os.Exit(1)
}

// withAdmin opens the document store from the environment and hands the
// action an admin for the configured key type.
func withAdmin(action func(ctx context.Context, c *cli.Context, a roleAdmin) error) func(c *cli.Context) error {
	return func(c *cli.Context) error {
		config, err := services.LoadConfig()
		if err != nil {
			return err
		}
		config.EnsureIndexes = false
		logger := logging.New("user-roles ", config.LogLevel)

		ctx := context.Background()
		runtime, err := services.Open(ctx, config, logger)
		if err != nil {
			return err
		}
		defer runtime.Close(ctx)

		kind, _ := config.KeyKind()
		var a roleAdmin
		err = services.Dispatch(kind,
			func() error { a = adminFor[string](runtime, logger); return nil },
			func() error { a = adminFor[int32](runtime, logger); return nil },
			func() error { a = adminFor[int64](runtime, logger); return nil },
		)
		if err != nil {
			return err
		}
		return action(ctx, c, a)
	}
}

func adminFor[K common.Key](runtime *services.Runtime, logger *log.Entry) roleAdmin {
	svc := services.New[K](runtime.Documents, logger, runtime.StoreOptions()...)
	return newAdmin(svc, runtime.Documents, os.Stdout)
}

type admin[K common.Key] struct {
	services  *services.Services[K]
	installer store.IndexInstaller
	out       io.Writer
}

func newAdmin[K common.Key](svc *services.Services[K], installer store.IndexInstaller, out io.Writer) *admin[K] {
	return &admin[K]{services: svc, installer: installer, out: out}
}

func (a *admin[K]) EnsureIndexes(ctx context.Context) error {
	if err := store.InstallIndexes(ctx, a.installer); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "indexes installed")
	return nil
}

func (a *admin[K]) CreateRole(ctx context.Context, name string) error {
	if name == "" {
		return errors.New("Role not specified")
	}
	scope, err := a.services.NewScope(ctx)
	if err != nil {
		return err
	}
	defer scope.Close(ctx)

	role := identity.NewRole[K](name)
	role.NormalizedName = name
	result, err := scope.Roles.Create(ctx, role)
	if err != nil {
		return err
	}
	if !result.Succeeded {
		return fmt.Errorf("unable to create role %s: %s", name, result)
	}
	if err := scope.SaveChanges(ctx); err != nil {
		return err
	}
	a.dump(role)
	return nil
}

func (a *admin[K]) ListRoles(ctx context.Context) error {
	scope, err := a.services.NewScope(ctx)
	if err != nil {
		return err
	}
	defer scope.Close(ctx)

	roles, err := scope.Roles.Roles(ctx, identity.Page{})
	if err != nil {
		return err
	}
	for _, role := range roles {
		a.dump(role)
	}
	return nil
}

func (a *admin[K]) FindUsersWithRole(ctx context.Context, role string) error {
	if role == "" {
		return errors.New("Role not specified")
	}
	scope, err := a.services.NewScope(ctx)
	if err != nil {
		return err
	}
	defer scope.Close(ctx)

	users, err := scope.Users.GetUsersInRole(ctx, role)
	if err != nil {
		return err
	}
	for _, user := range users {
		a.dump(user)
	}
	return nil
}

func (a *admin[K]) AddRoleToUser(ctx context.Context, email, role string) error {
	return a.updateUser(ctx, email, role, func(scope *services.Scope[K], user *identity.User[K]) error {
		if in, err := scope.Users.IsInRole(ctx, user, role); err != nil || in {
			return err
		}
		return scope.Users.AddToRole(ctx, user, role)
	})
}

func (a *admin[K]) RemoveRoleFromUser(ctx context.Context, email, role string) error {
	return a.updateUser(ctx, email, role, func(scope *services.Scope[K], user *identity.User[K]) error {
		return scope.Users.RemoveFromRole(ctx, user, role)
	})
}

func (a *admin[K]) updateUser(ctx context.Context, email, role string, update func(*services.Scope[K], *identity.User[K]) error) error {
	if email == "" {
		return errors.New("Email not specified")
	}
	if role == "" {
		return errors.New("Role not specified")
	}
	scope, err := a.services.NewScope(ctx)
	if err != nil {
		return err
	}
	defer scope.Close(ctx)

	user, err := scope.Users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("no user with email %s", email)
	}
	if err := update(scope, user); err != nil {
		return err
	}
	if err := scope.SaveChanges(ctx); err != nil {
		return err
	}
	a.dump(user)
	return nil
}

func (a *admin[K]) dump(v interface{}) {
	if dump, err := json.Marshal(v); err != nil {
		fmt.Fprintf(a.out, "Error dumping: %s\n", err.Error())
	} else {
		fmt.Fprintf(a.out, "%s\n", dump)
	}
}
